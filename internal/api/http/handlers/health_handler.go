package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/sebit-insight/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	pinger   Pinger
	required bool
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	deps        []dependency
}

// NewHealthHandler checks postgres as a hard dependency. Redis only backs
// the dashboard cache, so a nil or disabled client reports "disabled".
func NewHealthHandler(serviceName, version string, postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		deps: []dependency{
			{name: "postgres", pinger: postgres, required: true},
			{name: "redis", pinger: redis},
		},
	}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// Ready pings every dependency concurrently.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		status = fiber.Map{}
		ready  = true
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range h.deps {
		dep := dep
		g.Go(func() error {
			state, ok := probe(gctx, dep)
			mu.Lock()
			defer mu.Unlock()
			status[dep.name] = state
			ready = ready && ok
			return nil
		})
	}
	_ = g.Wait()

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": status,
		})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": status,
		},
	})
}

func probe(ctx context.Context, dep dependency) (string, bool) {
	if dep.pinger == nil {
		if dep.required {
			return persistence.ErrPostgresNotConfigured.Error(), false
		}
		return "disabled", true
	}
	err := dep.pinger.Ping(ctx)
	switch {
	case err == nil:
		return "ok", true
	case !dep.required && errors.Is(err, persistence.ErrRedisDisabled):
		return "disabled", true
	default:
		return err.Error(), false
	}
}
