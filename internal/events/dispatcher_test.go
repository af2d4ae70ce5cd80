package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversToSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	var calls []string

	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.ProjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.ProjectID)
		return nil
	})
	d.Subscribe(EventExpenseChanged, func(context.Context, Event) error {
		calls = append(calls, "expense")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventProjectCreated, "p1", nil, nil)))
	assert.Equal(t, []string{"first:p1", "second:p1"}, calls)
}

func TestSubscribeAll(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	count := 0
	SubscribeAll(d, func(context.Context, Event) error {
		count++
		return nil
	}, DataChangeEvents()...)

	for _, et := range DataChangeEvents() {
		require.NoError(t, d.Publish(context.Background(), New(et, "", nil, nil)))
	}
	require.NoError(t, d.Publish(context.Background(), New(EventPermissionRequested, "", nil, nil)))
	assert.Equal(t, len(DataChangeEvents()), count)
}

func TestNew_StampsEvent(t *testing.T) {
	actor := "u1"
	e := New(EventSettlementChanged, "p1", &actor, ResourceChangedPayload{Resource: "settlement"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "u1", *e.ActorID)
}
