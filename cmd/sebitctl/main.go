package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spec-kit/sebit-insight/internal/cli"
	"github.com/spec-kit/sebit-insight/internal/config"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/observability"
	"github.com/spec-kit/sebit-insight/internal/persistence"
	"github.com/spec-kit/sebit-insight/internal/repository"
	"github.com/spec-kit/sebit-insight/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func open(ctx context.Context) (*cli.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name+"-ctl", logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	pool := pg.Pool()

	departmentRepo := repository.NewDepartmentRepository(pool)
	dispatcher := events.NewInMemoryDispatcher(logger)

	app := &cli.App{
		Migrate: func(ctx context.Context, direction persistence.MigrationDirection) error {
			return persistence.Migrate(ctx, pool, direction, logger)
		},
		Users: service.NewUserService(*cfg, service.UserDependencies{
			UserRepo:       repository.NewUserRepository(pool),
			DepartmentRepo: departmentRepo,
		}),
		Importer: service.NewBulkImportService(service.BulkImportDependencies{
			MasterData: service.NewMasterDataService(service.MasterDataDependencies{
				DepartmentRepo: departmentRepo,
				ClientRepo:     repository.NewClientRepository(pool),
				EmployeeRepo:   repository.NewEmployeeRepository(pool),
				RateCardRepo:   repository.NewRateCardRepository(pool),
				Dispatcher:     dispatcher,
			}),
			Dispatcher: dispatcher,
			Logger:     logger,
			MaxRows:    cfg.Import.MaxRows,
		}),
	}
	cleanup := func() {
		pg.Close()
		_ = logger.Sync()
	}
	return app, cleanup, nil
}
