package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// MasterDataHandler serves departments, clients, employees and rate cards.
// DELETE deactivates; rows are never removed.
type MasterDataHandler struct {
	service *service.MasterDataService
}

// NewMasterDataHandler constructs handler.
func NewMasterDataHandler(masterData *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{service: masterData}
}

// ListDepartments GET /api/departments.
func (h *MasterDataHandler) ListDepartments(c *fiber.Ctx) error {
	rows, err := h.service.ListDepartments(c.UserContext(), includeInactive(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponses(rows)})
}

// GetDepartment GET /api/departments/:id.
func (h *MasterDataHandler) GetDepartment(c *fiber.Ctx) error {
	row, err := h.service.GetDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(row)})
}

// CreateDepartment POST /api/departments.
func (h *MasterDataHandler) CreateDepartment(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.CreateDepartment(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(row)})
}

// UpdateDepartment PUT /api/departments/:id.
func (h *MasterDataHandler) UpdateDepartment(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.UpdateDepartment(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(row)})
}

// DeactivateDepartment DELETE /api/departments/:id.
func (h *MasterDataHandler) DeactivateDepartment(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	row, err := h.service.DeactivateDepartment(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(row)})
}

// ListClients GET /api/clients.
func (h *MasterDataHandler) ListClients(c *fiber.Ctx) error {
	rows, err := h.service.ListClients(c.UserContext(), service.ClientListFilters{
		IncludeInactive: includeInactive(c),
		SearchTerm:      optionalQuery(c, "search"),
		Page:            pageFrom(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponses(rows)})
}

// GetClient GET /api/clients/:id.
func (h *MasterDataHandler) GetClient(c *fiber.Ctx) error {
	row, err := h.service.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(row)})
}

// CreateClient POST /api/clients.
func (h *MasterDataHandler) CreateClient(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.CreateClient(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewClientResponse(row)})
}

// UpdateClient PUT /api/clients/:id.
func (h *MasterDataHandler) UpdateClient(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ClientRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.UpdateClient(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(row)})
}

// DeactivateClient DELETE /api/clients/:id.
func (h *MasterDataHandler) DeactivateClient(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	row, err := h.service.DeactivateClient(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(row)})
}

// ListEmployees GET /api/employees.
func (h *MasterDataHandler) ListEmployees(c *fiber.Ctx) error {
	filters := service.EmployeeListFilters{
		DepartmentID:    optionalQuery(c, "department_id"),
		IncludeInactive: includeInactive(c),
		SearchTerm:      optionalQuery(c, "search"),
		Page:            pageFrom(c),
	}
	if raw := optionalQuery(c, "employment_type"); raw != nil {
		t := domain.EmploymentType(*raw)
		filters.EmploymentType = &t
	}
	rows, err := h.service.ListEmployees(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponses(rows)})
}

// GetEmployee GET /api/employees/:id.
func (h *MasterDataHandler) GetEmployee(c *fiber.Ctx) error {
	row, err := h.service.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(row)})
}

// CreateEmployee POST /api/employees.
func (h *MasterDataHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.CreateEmployee(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(row)})
}

// UpdateEmployee PUT /api/employees/:id.
func (h *MasterDataHandler) UpdateEmployee(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.UpdateEmployee(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(row)})
}

// DeactivateEmployee DELETE /api/employees/:id.
func (h *MasterDataHandler) DeactivateEmployee(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	row, err := h.service.DeactivateEmployee(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(row)})
}

// ListRateCards GET /api/rate-cards.
func (h *MasterDataHandler) ListRateCards(c *fiber.Ctx) error {
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return err
	}
	rows, err := h.service.ListRateCards(c.UserContext(), year, optionalQuery(c, "grade"), includeInactive(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRateCardResponses(rows)})
}

// GetRateCard GET /api/rate-cards/:id.
func (h *MasterDataHandler) GetRateCard(c *fiber.Ctx) error {
	row, err := h.service.GetRateCard(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRateCardResponse(row)})
}

// CreateRateCard POST /api/rate-cards.
func (h *MasterDataHandler) CreateRateCard(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RateCardRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.CreateRateCard(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRateCardResponse(row)})
}

// UpdateRateCard PUT /api/rate-cards/:id.
func (h *MasterDataHandler) UpdateRateCard(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RateCardRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.UpdateRateCard(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRateCardResponse(row)})
}

// DeactivateRateCard DELETE /api/rate-cards/:id.
func (h *MasterDataHandler) DeactivateRateCard(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	row, err := h.service.DeactivateRateCard(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRateCardResponse(row)})
}
