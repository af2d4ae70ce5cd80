package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// StaffingHandler manages staffing rows nested under projects.
type StaffingHandler struct {
	service *service.StaffingService
}

// NewStaffingHandler constructs handler.
func NewStaffingHandler(staffingService *service.StaffingService) *StaffingHandler {
	return &StaffingHandler{service: staffingService}
}

// List GET /api/projects/:id/staffing.
func (h *StaffingHandler) List(c *fiber.Ctx) error {
	rows, err := h.service.ListByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffingResponses(rows)})
}

// Create POST /api/projects/:id/staffing.
func (h *StaffingHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.StaffingRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Create(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffingResponse(row)})
}

// Update PUT /api/staffing/:id.
func (h *StaffingHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.StaffingRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffingResponse(row)})
}

// Delete DELETE /api/staffing/:id.
func (h *StaffingHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ExpensesHandler manages expenses nested under projects.
type ExpensesHandler struct {
	service *service.ExpenseService
}

// NewExpensesHandler constructs handler.
func NewExpensesHandler(expenseService *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{service: expenseService}
}

// List GET /api/projects/:id/expenses.
func (h *ExpensesHandler) List(c *fiber.Ctx) error {
	rows, err := h.service.ListByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewExpenseResponses(rows)})
}

// Create POST /api/projects/:id/expenses.
func (h *ExpensesHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ExpenseRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Create(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewExpenseResponse(row)})
}

// Update PUT /api/expenses/:id.
func (h *ExpensesHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ExpenseRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewExpenseResponse(row)})
}

// Delete DELETE /api/expenses/:id.
func (h *ExpensesHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
