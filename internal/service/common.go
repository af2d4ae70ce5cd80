package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

const dateLayout = "2006-01-02"

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// fieldErrors collects per-field validation failures.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", map[string]any{"fields": map[string]string(f)})
}

func actorID(actor *domain.User) *string {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	return t, err == nil
}

func requireProjectWritable(project *domain.Project) error {
	if project.Status.Terminal() {
		return apperrors.NewConflict("project is closed for changes", map[string]any{
			"project_id": project.ID,
			"status":     project.Status,
		})
	}
	return nil
}

// Page normalizes page/page_size query parameters.
type Page struct {
	Page     int
	PageSize int
}

// Limit returns the SQL limit for the page.
func (p Page) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
