package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/listdash/internal/dashboard"
)

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(1),
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

			confirm := dashboard.ConfirmerFunc(func(_ context.Context, action string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s? [y/N] ", action)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				return strings.EqualFold(strings.TrimSpace(line), "y")
			})
			notifier := dashboard.NotifierFunc(func(_ context.Context, o dashboard.Outcome) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", o.Summary, o.Detail)
			})
			orc := dashboard.New(cfg, st, notifier, confirm)
			if !orc.Delete(cmd.Context(), args[0]) {
				return errors.New("delete not performed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
