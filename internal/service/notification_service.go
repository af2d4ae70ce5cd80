package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/sebit-insight/internal/config"
	"github.com/spec-kit/sebit-insight/internal/events"
)

// Channel is a notification delivery target.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
)

// Notification is a rendered message for one event.
type Notification struct {
	EventID   string
	EventType events.EventType
	Channels  []Channel
	Audience  string
	Subject   string
	ProjectID string
}

// Notifier delivers a rendered notification. The default notifier only logs.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

var notificationRoutes = map[events.EventType]struct {
	channels []Channel
	audience string
}{
	events.EventProjectCreated:       {channels: []Channel{ChannelWebhook}, audience: "project-watchers"},
	events.EventProjectStatusChanged: {channels: []Channel{ChannelEmail, ChannelWebhook}, audience: "project-watchers"},
	events.EventPermissionRequested:  {channels: []Channel{ChannelEmail}, audience: "admins"},
	events.EventPermissionReviewed:   {channels: []Channel{ChannelEmail}, audience: "requester"},
	events.EventBulkImportCompleted:  {channels: []Channel{ChannelWebhook}, audience: "project-watchers"},
}

// NotificationService turns domain events into email and webhook notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   logNotifier{logger: logger, cfg: cfg},
		logger:     logger,
		cfg:        cfg,
	}
}

// WithNotifier replaces the delivery backend.
func (n *NotificationService) WithNotifier(notifier Notifier) *NotificationService {
	if notifier != nil {
		n.notifier = notifier
	}
	return n
}

// RegisterHandlers subscribes to every routed event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range notificationRoutes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	route, ok := notificationRoutes[event.Type]
	if !ok {
		return nil
	}
	channels := n.enabledChannels(route.channels)
	if len(channels) == 0 {
		return nil
	}
	return n.notifier.Notify(ctx, Notification{
		EventID:   event.ID,
		EventType: event.Type,
		Channels:  channels,
		Audience:  route.audience,
		Subject:   subjectFor(event),
		ProjectID: event.ProjectID,
	})
}

func (n *NotificationService) enabledChannels(channels []Channel) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		switch ch {
		case ChannelEmail:
			if strings.TrimSpace(n.cfg.EmailFrom) == "" {
				continue
			}
		case ChannelWebhook:
			if strings.TrimSpace(n.cfg.WebhookURL) == "" {
				continue
			}
		}
		out = append(out, ch)
	}
	return out
}

func subjectFor(event events.Event) string {
	switch p := event.Payload.(type) {
	case events.ProjectCreatedPayload:
		return fmt.Sprintf("프로젝트 등록: [%s] %s", p.Code, p.Name)
	case events.ProjectStatusChangedPayload:
		return fmt.Sprintf("프로젝트 상태 변경: %s → %s", p.OldStatus.Label(), p.NewStatus.Label())
	case events.PermissionRequestedPayload:
		return fmt.Sprintf("권한 요청: %s → %s", p.CurrentRole, p.RequestedRole)
	case events.PermissionReviewedPayload:
		return fmt.Sprintf("권한 요청 %s: %s", p.Status, p.RequestedRole)
	case events.BulkImportCompletedPayload:
		return fmt.Sprintf("일괄 등록 완료: %d건 생성, %d건 실패", p.Created, p.Failed)
	}
	return string(event.Type)
}

type logNotifier struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

func (l logNotifier) Notify(_ context.Context, n Notification) error {
	for _, ch := range n.Channels {
		fields := []zap.Field{
			zap.String("channel", string(ch)),
			zap.String("event_id", n.EventID),
			zap.String("event_type", string(n.EventType)),
			zap.String("audience", n.Audience),
			zap.String("subject", n.Subject),
		}
		if n.ProjectID != "" {
			fields = append(fields, zap.String("project_id", n.ProjectID))
		}
		switch ch {
		case ChannelEmail:
			fields = append(fields, zap.String("from", l.cfg.EmailFrom))
		case ChannelWebhook:
			fields = append(fields, zap.String("url", l.cfg.WebhookURL))
		}
		l.logger.Info("notification queued", fields...)
	}
	return nil
}
