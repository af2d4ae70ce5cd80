package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/observability"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// DashboardHandler serves portfolio aggregates and request metrics.
type DashboardHandler struct {
	service *service.DashboardService
	metrics *observability.Metrics
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, metrics *observability.Metrics) *DashboardHandler {
	return &DashboardHandler{service: dashboard, metrics: metrics}
}

// Get GET /api/dashboard?year=&department_id=.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return err
	}
	result, err := h.service.Get(c.UserContext(), service.DashboardQuery{
		Year:         year,
		DepartmentID: optionalQuery(c, "department_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Metrics GET /api/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
