package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// List GET /api/projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	filters, err := parseProjectQuery(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewProjectResponses(list.Projects),
		"meta": pageMeta(filters.Page, list.Total),
	})
}

// Get GET /api/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectDetailResponse(detail)})
}

// Create POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ProjectRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	project, err := h.service.Create(c.UserContext(), actor, req.ToInput(), service.SourceWizard)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Update PUT /api/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ProjectRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	project, err := h.service.Update(c.UserContext(), actor, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// ChangeStatus PATCH /api/projects/:id/status.
func (h *ProjectsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ProjectStatusRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	project, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), domain.ProjectStatus(req.Status), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Delete DELETE /api/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /api/projects/:id/history.
func (h *ProjectsHandler) History(c *fiber.Ctx) error {
	page := pageFrom(c)
	entries, err := h.service.History(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectHistoryResponses(entries)})
}

// Cost GET /api/projects/:id/cost.
func (h *ProjectsHandler) Cost(c *fiber.Ctx) error {
	result, err := h.service.Cost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Calculate POST /api/cost/calculate.
func (h *ProjectsHandler) Calculate(c *fiber.Ctx) error {
	var req dto.CostCalculateRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	result, err := service.EstimateCost(req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

func parseProjectQuery(c *fiber.Ctx) (service.ProjectListFilters, error) {
	filters := service.ProjectListFilters{
		DepartmentID: optionalQuery(c, "department_id"),
		ClientID:     optionalQuery(c, "client_id"),
		SearchTerm:   optionalQuery(c, "search"),
		Page:         pageFrom(c),
	}
	for _, status := range multiQuery(c, "status") {
		filters.Statuses = append(filters.Statuses, domain.ProjectStatus(status))
	}
	if raw := optionalQuery(c, "type"); raw != nil {
		t := domain.ProjectType(*raw)
		filters.Type = &t
	}
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return filters, err
	}
	filters.Year = year
	return filters, nil
}
