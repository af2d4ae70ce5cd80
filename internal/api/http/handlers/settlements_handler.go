package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// SettlementsHandler manages settlement endpoints.
type SettlementsHandler struct {
	service *service.SettlementService
}

// NewSettlementsHandler constructs handler.
func NewSettlementsHandler(settlementService *service.SettlementService) *SettlementsHandler {
	return &SettlementsHandler{service: settlementService}
}

// List GET /api/settlements.
func (h *SettlementsHandler) List(c *fiber.Ctx) error {
	filters := service.SettlementListFilters{
		ProjectID: optionalQuery(c, "project_id"),
		Period:    optionalQuery(c, "period"),
		Page:      pageFrom(c),
	}
	if raw := optionalQuery(c, "status"); raw != nil {
		status := domain.SettlementStatus(*raw)
		filters.Status = &status
	}
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return err
	}
	filters.Year = year

	rows, err := h.service.List(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettlementResponses(rows)})
}

// Get GET /api/settlements/:id.
func (h *SettlementsHandler) Get(c *fiber.Ctx) error {
	row, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettlementResponse(row)})
}

// Create POST /api/settlements.
func (h *SettlementsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateSettlementRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Create(c.UserContext(), actor, service.SettlementInput{
		ProjectID: req.ProjectID,
		Period:    req.Period,
		Amount:    req.Amount,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSettlementResponse(row)})
}

// Update PUT /api/settlements/:id.
func (h *SettlementsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSettlementRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.Amount, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettlementResponse(row)})
}

// ChangeStatus PATCH /api/settlements/:id/status.
func (h *SettlementsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SettlementStatusRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), domain.SettlementStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettlementResponse(row)})
}
