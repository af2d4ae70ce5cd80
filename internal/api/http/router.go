package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sebit-insight/internal/api/http/handlers"
	"github.com/spec-kit/sebit-insight/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Projects       *handlers.ProjectsHandler
	Staffing       *handlers.StaffingHandler
	Expenses       *handlers.ExpensesHandler
	Settlements    *handlers.SettlementsHandler
	MasterData     *handlers.MasterDataHandler
	Permissions    *handlers.PermissionsHandler
	Dashboard      *handlers.DashboardHandler
	BulkImport     *handlers.BulkImportHandler
	AuthMiddleware *auth.AuthMiddleware
	Authorizer     *auth.Authorizer
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Post("/password", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	can := func(object, action string) fiber.Handler {
		return auth.Require(cfg.Authorizer, cfg.Logger, object, action)
	}
	idParam := requireUUIDParam("id")

	protected.Get("/users", can(auth.ObjectUsers, auth.ActionRead), cfg.Users.List)
	protected.Post("/users", can(auth.ObjectUsers, auth.ActionWrite), cfg.Users.Create)
	protected.Patch("/users/:id/role", can(auth.ObjectUsers, auth.ActionWrite), idParam, cfg.Users.ChangeRole)
	protected.Patch("/users/:id/active", can(auth.ObjectUsers, auth.ActionWrite), idParam, cfg.Users.SetActive)

	// bulk routes first so "bulk" is not captured as a project id
	protected.Post("/projects/bulk/preview", can(auth.ObjectProjects, auth.ActionImport), cfg.BulkImport.Preview)
	protected.Post("/projects/bulk", can(auth.ObjectProjects, auth.ActionImport), cfg.BulkImport.Submit)

	protected.Get("/projects", can(auth.ObjectProjects, auth.ActionRead), cfg.Projects.List)
	protected.Post("/projects", can(auth.ObjectProjects, auth.ActionWrite), cfg.Projects.Create)
	protected.Get("/projects/:id", can(auth.ObjectProjects, auth.ActionRead), idParam, cfg.Projects.Get)
	protected.Put("/projects/:id", can(auth.ObjectProjects, auth.ActionWrite), idParam, cfg.Projects.Update)
	protected.Patch("/projects/:id/status", can(auth.ObjectProjects, auth.ActionWrite), idParam, cfg.Projects.ChangeStatus)
	protected.Delete("/projects/:id", can(auth.ObjectProjects, auth.ActionDelete), idParam, cfg.Projects.Delete)
	protected.Get("/projects/:id/history", can(auth.ObjectProjects, auth.ActionRead), idParam, cfg.Projects.History)
	protected.Get("/projects/:id/cost", can(auth.ObjectCost, auth.ActionRead), idParam, cfg.Projects.Cost)
	protected.Post("/cost/calculate", can(auth.ObjectCost, auth.ActionRead), cfg.Projects.Calculate)

	protected.Get("/projects/:id/staffing", can(auth.ObjectStaffing, auth.ActionRead), idParam, cfg.Staffing.List)
	protected.Post("/projects/:id/staffing", can(auth.ObjectStaffing, auth.ActionWrite), idParam, cfg.Staffing.Create)
	protected.Put("/staffing/:id", can(auth.ObjectStaffing, auth.ActionWrite), idParam, cfg.Staffing.Update)
	protected.Delete("/staffing/:id", can(auth.ObjectStaffing, auth.ActionWrite), idParam, cfg.Staffing.Delete)

	protected.Get("/projects/:id/expenses", can(auth.ObjectExpenses, auth.ActionRead), idParam, cfg.Expenses.List)
	protected.Post("/projects/:id/expenses", can(auth.ObjectExpenses, auth.ActionWrite), idParam, cfg.Expenses.Create)
	protected.Put("/expenses/:id", can(auth.ObjectExpenses, auth.ActionWrite), idParam, cfg.Expenses.Update)
	protected.Delete("/expenses/:id", can(auth.ObjectExpenses, auth.ActionWrite), idParam, cfg.Expenses.Delete)

	protected.Get("/settlements", can(auth.ObjectSettlements, auth.ActionRead), cfg.Settlements.List)
	protected.Post("/settlements", can(auth.ObjectSettlements, auth.ActionWrite), cfg.Settlements.Create)
	protected.Get("/settlements/:id", can(auth.ObjectSettlements, auth.ActionRead), idParam, cfg.Settlements.Get)
	protected.Put("/settlements/:id", can(auth.ObjectSettlements, auth.ActionWrite), idParam, cfg.Settlements.Update)
	protected.Patch("/settlements/:id/status", can(auth.ObjectSettlements, auth.ActionWrite), idParam, cfg.Settlements.ChangeStatus)

	md := cfg.MasterData
	protected.Get("/departments", can(auth.ObjectDepartments, auth.ActionRead), md.ListDepartments)
	protected.Post("/departments", can(auth.ObjectDepartments, auth.ActionWrite), md.CreateDepartment)
	protected.Get("/departments/:id", can(auth.ObjectDepartments, auth.ActionRead), idParam, md.GetDepartment)
	protected.Put("/departments/:id", can(auth.ObjectDepartments, auth.ActionWrite), idParam, md.UpdateDepartment)
	protected.Delete("/departments/:id", can(auth.ObjectDepartments, auth.ActionWrite), idParam, md.DeactivateDepartment)

	protected.Get("/clients", can(auth.ObjectClients, auth.ActionRead), md.ListClients)
	protected.Post("/clients", can(auth.ObjectClients, auth.ActionWrite), md.CreateClient)
	protected.Get("/clients/:id", can(auth.ObjectClients, auth.ActionRead), idParam, md.GetClient)
	protected.Put("/clients/:id", can(auth.ObjectClients, auth.ActionWrite), idParam, md.UpdateClient)
	protected.Delete("/clients/:id", can(auth.ObjectClients, auth.ActionDelete), idParam, md.DeactivateClient)

	protected.Get("/employees", can(auth.ObjectEmployees, auth.ActionRead), md.ListEmployees)
	protected.Post("/employees", can(auth.ObjectEmployees, auth.ActionWrite), md.CreateEmployee)
	protected.Get("/employees/:id", can(auth.ObjectEmployees, auth.ActionRead), idParam, md.GetEmployee)
	protected.Put("/employees/:id", can(auth.ObjectEmployees, auth.ActionWrite), idParam, md.UpdateEmployee)
	protected.Delete("/employees/:id", can(auth.ObjectEmployees, auth.ActionWrite), idParam, md.DeactivateEmployee)

	protected.Get("/rate-cards", can(auth.ObjectRateCards, auth.ActionRead), md.ListRateCards)
	protected.Post("/rate-cards", can(auth.ObjectRateCards, auth.ActionWrite), md.CreateRateCard)
	protected.Get("/rate-cards/:id", can(auth.ObjectRateCards, auth.ActionRead), idParam, md.GetRateCard)
	protected.Put("/rate-cards/:id", can(auth.ObjectRateCards, auth.ActionWrite), idParam, md.UpdateRateCard)
	protected.Delete("/rate-cards/:id", can(auth.ObjectRateCards, auth.ActionWrite), idParam, md.DeactivateRateCard)

	protected.Get("/permission-requests", can(auth.ObjectPermissionRequests, auth.ActionRead), cfg.Permissions.List)
	protected.Post("/permission-requests", can(auth.ObjectPermissionRequests, auth.ActionCreate), cfg.Permissions.Create)
	protected.Post("/permission-requests/:id/approve", can(auth.ObjectPermissionRequests, auth.ActionReview), idParam, cfg.Permissions.Approve)
	protected.Post("/permission-requests/:id/reject", can(auth.ObjectPermissionRequests, auth.ActionReview), idParam, cfg.Permissions.Reject)

	protected.Get("/dashboard", can(auth.ObjectDashboard, auth.ActionRead), cfg.Dashboard.Get)
	protected.Get("/metrics", can(auth.ObjectMetrics, auth.ActionRead), cfg.Dashboard.Metrics)
}
