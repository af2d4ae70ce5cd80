package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sebit-insight/internal/api/http"
	"github.com/spec-kit/sebit-insight/internal/api/http/handlers"
	"github.com/spec-kit/sebit-insight/internal/auth"
	"github.com/spec-kit/sebit-insight/internal/cache"
	"github.com/spec-kit/sebit-insight/internal/config"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/observability"
	"github.com/spec-kit/sebit-insight/internal/persistence"
	"github.com/spec-kit/sebit-insight/internal/repository"
	"github.com/spec-kit/sebit-insight/internal/service"
	"github.com/spec-kit/sebit-insight/internal/worker"
)

const minBodyLimit = 4 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	authzMode, err := auth.ParseMode(cfg.Auth.AuthzMode, cfg.Auth.AuthzAllowDisabled)
	if err != nil {
		logger.Fatal("invalid AUTHZ_MODE", zap.Error(err))
	}
	authorizer, err := auth.NewAuthorizer(authzMode)
	if err != nil {
		logger.Fatal("failed to build authorizer", zap.Error(err))
	}
	if authzMode != auth.ModeEnforce {
		logger.Warn("authorization not enforced", zap.String("mode", string(authzMode)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.Pool()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	rateCardRepo := repository.NewRateCardRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	historyRepo := repository.NewProjectHistoryRepository(pool)
	staffingRepo := repository.NewStaffingRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)
	settlementRepo := repository.NewSettlementRepository(pool)
	permissionRepo := repository.NewPermissionRequestRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Logger:            logger,
	})
	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
	})
	masterDataService := service.NewMasterDataService(service.MasterDataDependencies{
		DepartmentRepo: departmentRepo,
		ClientRepo:     clientRepo,
		EmployeeRepo:   employeeRepo,
		RateCardRepo:   rateCardRepo,
		Dispatcher:     dispatcher,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo:    projectRepo,
		HistoryRepo:    historyRepo,
		StaffingRepo:   staffingRepo,
		ExpenseRepo:    expenseRepo,
		ClientRepo:     clientRepo,
		DepartmentRepo: departmentRepo,
		EmployeeRepo:   employeeRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	staffingService := service.NewStaffingService(service.StaffingDependencies{
		ProjectRepo:  projectRepo,
		StaffingRepo: staffingRepo,
		EmployeeRepo: employeeRepo,
		RateCardRepo: rateCardRepo,
		Dispatcher:   dispatcher,
	})
	expenseService := service.NewExpenseService(service.ExpenseDependencies{
		ProjectRepo: projectRepo,
		ExpenseRepo: expenseRepo,
		Dispatcher:  dispatcher,
	})
	settlementService := service.NewSettlementService(service.SettlementDependencies{
		ProjectRepo:    projectRepo,
		SettlementRepo: settlementRepo,
		Dispatcher:     dispatcher,
	})
	permissionService := service.NewPermissionService(service.PermissionDependencies{
		PermissionRequestRepo: permissionRepo,
		UserRepo:              userRepo,
		Dispatcher:            dispatcher,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		ProjectRepo:    projectRepo,
		StaffingRepo:   staffingRepo,
		ExpenseRepo:    expenseRepo,
		SettlementRepo: settlementRepo,
		DepartmentRepo: departmentRepo,
		Cache:          cache.NewDashboardCache(redis.Client(), cfg.Dashboard.CacheTTL()),
		Logger:         logger,
	})
	bulkImportService := service.NewBulkImportService(service.BulkImportDependencies{
		ProjectService: projectService,
		MasterData:     masterDataService,
		ClientRepo:     clientRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxRows:        cfg.Import.MaxRows,
	})

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	worker.StartDashboardInvalidator(dispatcher, dashboardService, logger)

	metrics := observability.NewMetrics()
	bodyLimit := cfg.Import.MaxUploadBytes + (1 << 20)
	if bodyLimit < minBodyLimit {
		bodyLimit = minBodyLimit
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth: handlers.NewAuthHandler(authService, handlers.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}, !cfg.IsProduction()),
		Users:          handlers.NewUsersHandler(userService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Staffing:       handlers.NewStaffingHandler(staffingService),
		Expenses:       handlers.NewExpensesHandler(expenseService),
		Settlements:    handlers.NewSettlementsHandler(settlementService),
		MasterData:     handlers.NewMasterDataHandler(masterDataService),
		Permissions:    handlers.NewPermissionsHandler(permissionService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, metrics),
		BulkImport:     handlers.NewBulkImportHandler(bulkImportService, cfg.Import.MaxUploadBytes),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo, cfg.Auth.CookieName),
		Authorizer:     authorizer,
		Logger:         logger,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
