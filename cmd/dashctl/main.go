package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{Use: "dashctl"}

func init() {
	rootCmd.PersistentFlags().String("config", "dashboard.yaml", "dashboard configuration file")
	rootCmd.PersistentFlags().String("api-url", "", "Dashboard API base URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the Dashboard API")
	rootCmd.PersistentFlags().String("dsn", "", "database DSN")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver")
	rootCmd.PersistentFlags().String("output", "table", "Output format (table|json)")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newColumnsCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDeleteCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
