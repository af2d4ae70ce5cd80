package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/api/dto"
	"github.com/spec-kit/sebit-insight/internal/api/validate"
	"github.com/spec-kit/sebit-insight/internal/service"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// BulkImportHandler serves the spreadsheet import flow: preview then submit.
type BulkImportHandler struct {
	service        *service.BulkImportService
	maxUploadBytes int64
}

// NewBulkImportHandler constructs handler.
func NewBulkImportHandler(bulkImport *service.BulkImportService, maxUploadBytes int) *BulkImportHandler {
	return &BulkImportHandler{service: bulkImport, maxUploadBytes: int64(maxUploadBytes)}
}

// Preview POST /api/projects/bulk/preview. Accepts a multipart upload under
// "file", or JSON with already parsed headers and rows plus an edited mapping.
func (h *BulkImportHandler) Preview(c *fiber.Ctx) error {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return h.previewUpload(c)
	}

	var req dto.BulkPreviewRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	preview, err := h.service.Preview(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": preview})
}

func (h *BulkImportHandler) previewUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{
			"fields": map[string]string{"file": "is required"},
		})
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return fiber.NewError(http.StatusRequestEntityTooLarge, "uploaded file is too large")
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	autoCreate := strings.EqualFold(c.FormValue("auto_create_clients"), "true") || c.FormValue("auto_create_clients") == "1"
	preview, err := h.service.PreviewFile(c.UserContext(), file, header.Filename, autoCreate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": preview})
}

// Submit POST /api/projects/bulk.
func (h *BulkImportHandler) Submit(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.BulkSubmitRequest
	if err := validate.Body(c, &req); err != nil {
		return err
	}
	result, err := h.service.Submit(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return err
	}
	status := http.StatusOK
	if result.Created > 0 {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": result})
}
