// Package export renders a loaded record set for download.
package export

import (
	"encoding/csv"
	"io"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

// CSV writes records as comma-separated values. The header row carries the
// display names of cols; cells are formatted per column type the same way
// the table renders them.
func CSV(w io.Writer, cols []columns.Column, records []store.Record) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.DisplayName
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			row[i] = columns.FormatCell(c, rec[c.FieldName])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
