// Package cli implements sebitctl, the operator command line for schema
// migrations, account bootstrap and offline import checks.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/persistence"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// UserCreator provisions accounts.
type UserCreator interface {
	Create(ctx context.Context, input service.CreateUserInput) (*domain.User, error)
}

// ImportPreviewer parses a spreadsheet and validates its rows without
// creating anything. *service.BulkImportService implements it.
type ImportPreviewer interface {
	PreviewFile(ctx context.Context, file io.Reader, filename string, autoCreateClients bool) (*service.Preview, error)
}

// App holds what the commands need. Fields are populated by an Opener so
// that --help works without a database.
type App struct {
	Migrate  func(ctx context.Context, direction persistence.MigrationDirection) error
	Users    UserCreator
	Importer ImportPreviewer
}

// Opener connects to backing stores and returns the App plus a cleanup func.
type Opener func(ctx context.Context) (*App, func(), error)

// NewRootCmd creates the top-level "sebitctl" command.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "sebitctl",
		Short:         "SEbit Insight operator tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(open),
		newCreateUserCmd(open),
		newImportCheckCmd(open),
	)
	return root
}

func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, cleanup, err := open(ctx)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return fn(ctx, app)
}
