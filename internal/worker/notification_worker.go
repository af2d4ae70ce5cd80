package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// Invalidator drops cached aggregates.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// StartDashboardInvalidator bumps the dashboard cache generation on every data change.
func StartDashboardInvalidator(dispatcher events.Dispatcher, target Invalidator, logger *zap.Logger) {
	if dispatcher == nil || target == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	events.SubscribeAll(dispatcher, func(ctx context.Context, event events.Event) error {
		if err := target.Invalidate(ctx); err != nil {
			logger.Warn("dashboard cache invalidation failed",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
		return nil
	}, events.DataChangeEvents()...)
}
