package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Show the configured columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if out, _ := cmd.Flags().GetString("output"); out == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Columns)
			}
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"Field", "Display", "Type", "Visible", "Filterable", "Searchable", "Required"})
			for _, c := range cfg.Columns {
				tw.Append([]string{
					c.FieldName, c.DisplayName, string(c.Type),
					fmt.Sprint(c.Visible), fmt.Sprint(c.Filterable),
					fmt.Sprint(c.Searchable), fmt.Sprint(c.Required),
				})
			}
			tw.Render()
			return nil
		},
	}
}
