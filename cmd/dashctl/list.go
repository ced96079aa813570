package main

import (
	"encoding/json"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/query"
)

func newListCmd() *cobra.Command {
	var search string
	var filters []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records of the configured collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			parsed := make([]query.Filter, 0, len(filters))
			for _, raw := range filters {
				f, err := query.ParseFilter(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, f)
			}
			b := query.Builder{Collection: cfg.Collection, TopCount: cfg.TopCount}
			recs, err := st.Fetch(cmd.Context(), b.Build(search, parsed, cfg.Columns))
			if err != nil {
				return err
			}

			if out, _ := cmd.Flags().GetString("output"); out == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			visible := columns.Visible(cfg.Columns)
			header := make([]string, len(visible))
			for i, c := range visible {
				header[i] = c.DisplayName
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader(header)
			for _, rec := range recs {
				row := make([]string, len(visible))
				for i, c := range visible {
					row[i] = columns.FormatCell(c, rec[c.FieldName])
				}
				tw.Append(row)
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "free-text search term")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter in field:op:value form (repeatable)")
	return cmd
}
