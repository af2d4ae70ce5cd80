package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sebit-insight/internal/persistence"
)

func newMigrateCmd(open Opener) *cobra.Command {
	var down, status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down && status {
				return fmt.Errorf("--down and --status are mutually exclusive")
			}
			direction := persistence.MigrateUp
			switch {
			case down:
				direction = persistence.MigrateDown
			case status:
				direction = persistence.MigrateStatus
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				if err := app.Migrate(ctx, direction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", direction)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	cmd.Flags().BoolVar(&status, "status", false, "print migration status only")
	return cmd
}
