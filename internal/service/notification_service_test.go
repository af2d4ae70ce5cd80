package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/config"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
)

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newNotificationHarness(cfg config.NotificationConfig) (events.Dispatcher, *recordingNotifier) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	rec := &recordingNotifier{}
	NewNotificationService(dispatcher, nil, cfg).WithNotifier(rec).RegisterHandlers()
	return dispatcher, rec
}

func TestNotificationRouting(t *testing.T) {
	dispatcher, rec := newNotificationHarness(config.NotificationConfig{
		EmailFrom:  "noreply@sebit.co.kr",
		WebhookURL: "https://hooks.example.com/insight",
	})
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventProjectStatusChanged, "p-1", nil, events.ProjectStatusChangedPayload{
		OldStatus: domain.ProjectStatusActive,
		NewStatus: domain.ProjectStatusSettlementPending,
	})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventPermissionRequested, "", nil, events.PermissionRequestedPayload{
		CurrentRole:   domain.RoleUser,
		RequestedRole: domain.RoleManager,
	})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventExpenseChanged, "p-1", nil, nil)))

	require.Len(t, rec.sent, 2)
	assert.Equal(t, []Channel{ChannelEmail, ChannelWebhook}, rec.sent[0].Channels)
	assert.Equal(t, "프로젝트 상태 변경: 진행중 → 정산대기", rec.sent[0].Subject)
	assert.Equal(t, "p-1", rec.sent[0].ProjectID)
	assert.Equal(t, "admins", rec.sent[1].Audience)
	assert.Equal(t, "권한 요청: user → manager", rec.sent[1].Subject)
}

func TestNotificationSkipsUnconfiguredChannels(t *testing.T) {
	dispatcher, rec := newNotificationHarness(config.NotificationConfig{EmailFrom: "noreply@sebit.co.kr"})
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventBulkImportCompleted, "", nil, events.BulkImportCompletedPayload{Created: 3})))
	assert.Empty(t, rec.sent, "webhook-only events are dropped without a webhook URL")

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventProjectStatusChanged, "p-1", nil, events.ProjectStatusChangedPayload{})))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, []Channel{ChannelEmail}, rec.sent[0].Channels)
}

func TestDefaultNotifierLogsWithoutError(t *testing.T) {
	svc := NewNotificationService(nil, nil, config.NotificationConfig{WebhookURL: "https://hooks.example.com"})
	svc.RegisterHandlers()
	err := svc.handle(context.Background(), events.New(events.EventProjectCreated, "p-1", nil, events.ProjectCreatedPayload{Code: "P-2024-001", Name: "ERP"}))
	assert.NoError(t, err)
}
