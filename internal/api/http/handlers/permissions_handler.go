package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// PermissionsHandler serves role upgrade requests.
type PermissionsHandler struct {
	service *service.PermissionService
}

// NewPermissionsHandler constructs handler.
func NewPermissionsHandler(permissionService *service.PermissionService) *PermissionsHandler {
	return &PermissionsHandler{service: permissionService}
}

// List GET /api/permission-requests.
func (h *PermissionsHandler) List(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	filters := service.PermissionListFilters{Page: pageFrom(c)}
	if raw := optionalQuery(c, "status"); raw != nil {
		status := domain.PermissionRequestStatus(*raw)
		filters.Status = &status
	}
	rows, err := h.service.List(c.UserContext(), actor, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPermissionRequestResponses(rows)})
}

// Create POST /api/permission-requests.
func (h *PermissionsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PermissionRequestCreate
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	row, err := h.service.Request(c.UserContext(), actor, domain.Role(req.RequestedRole), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPermissionRequestResponse(row)})
}

// Approve POST /api/permission-requests/:id/approve.
func (h *PermissionsHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, true)
}

// Reject POST /api/permission-requests/:id/reject.
func (h *PermissionsHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, false)
}

func (h *PermissionsHandler) review(c *fiber.Ctx, approve bool) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PermissionReviewRequest
	if len(c.Body()) > 0 {
		if err := validate.Body(c, &req); err != nil {
			return err
		}
	}
	var row *domain.PermissionRequest
	if approve {
		row, err = h.service.Approve(c.UserContext(), actor, c.Params("id"), req.Comment)
	} else {
		row, err = h.service.Reject(c.UserContext(), actor, c.Params("id"), req.Comment)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPermissionRequestResponse(row)})
}
