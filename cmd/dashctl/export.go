package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/export"
	"github.com/faciam-dev/listdash/pkg/query"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.EnableExport {
				return errors.New("export is disabled in the dashboard configuration")
			}
			st, closeStore, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			b := query.Builder{Collection: cfg.Collection, TopCount: cfg.TopCount}
			recs, err := st.Fetch(cmd.Context(), b.Build("", nil, cfg.Columns))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(filepath.Clean(out))
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export.CSV(w, columns.Visible(cfg.Columns), recs)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
