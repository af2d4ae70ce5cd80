package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sebit-insight/internal/auth"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func pageFrom(c *fiber.Ctx) service.Page {
	return service.Page{
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 20),
	}
}

func pageMeta(page service.Page, total int) fiber.Map {
	return fiber.Map{"page": page.Page, "page_size": page.Limit(), "total": total}
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func optionalIntQuery(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid query parameter", map[string]any{
			"fields": map[string]string{key: "must be an integer"},
		})
	}
	return &val, nil
}

func includeInactive(c *fiber.Ctx) bool {
	return c.QueryBool("include_inactive", false)
}

// multiQuery accepts both repeated keys and comma separated values.
func multiQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
