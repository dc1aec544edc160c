package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

func TestBus_PublishReachesAllSubscribersInOrder(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var got []string
	bus.Subscribe(func(_ context.Context, _ domain.Event) {
		got = append(got, "first")
	})
	bus.Subscribe(func(_ context.Context, _ domain.Event) {
		got = append(got, "second")
	})

	bus.Publish(context.Background(), domain.Event{
		Type:    domain.EventOrderCreated,
		OrderID: uuid.New(),
	})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_PanickingSubscriberDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	delivered := false
	bus.Subscribe(func(_ context.Context, _ domain.Event) {
		panic("subscriber bug")
	})
	bus.Subscribe(func(_ context.Context, _ domain.Event) {
		delivered = true
	})

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), domain.Event{Type: domain.EventOrderStatusChanged})
	})
	assert.True(t, delivered)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), domain.Event{Type: domain.EventPaymentCompleted})
	})
}
