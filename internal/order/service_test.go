package order

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/notify"
	"github.com/Karlson54/TelegramBot/internal/payment"
)

func setupOrderService(t *testing.T) (*Service, *payment.MemoryRepository) {
	payments := payment.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(), payments, nil, zaptest.NewLogger(t))
	return svc, payments
}

func beansAndFilter() []domain.OrderItem {
	return []domain.OrderItem{
		{ProductID: 1, Name: "Beans", Quantity: 2, UnitPrice: 19.99},
		{ProductID: 2, Name: "Filter", Quantity: 1, UnitPrice: 12.50},
	}
}

func TestService_Create_EmptyFails(t *testing.T) {
	svc, _ := setupOrderService(t)

	_, err := svc.Create(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestService_Create_ComputesTotal(t *testing.T) {
	svc, _ := setupOrderService(t)

	o, err := svc.Create(context.Background(), 1, beansAndFilter())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusNew, o.Status)
	assert.InDelta(t, 2*19.99+12.50, o.TotalAmount, 0.001)
	assert.NotEqual(t, uuid.Nil, o.ID)
}

func TestService_AddLine_MergesAndRecomputes(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)

	updated, err := svc.AddLine(ctx, o.ID, domain.OrderItem{ProductID: 1, Name: "Beans", Quantity: 3, UnitPrice: 25.00})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, int32(5), updated.Items[0].Quantity)
	assert.Equal(t, 19.99, updated.Items[0].UnitPrice)
	assert.InDelta(t, 5*19.99+12.50, updated.TotalAmount, 0.001)
}

func TestService_AddLine_LockedAfterNew(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusPendingPayment)
	require.NoError(t, err)

	_, err = svc.AddLine(ctx, o.ID, domain.OrderItem{ProductID: 3, Quantity: 1, UnitPrice: 5})
	assert.ErrorIs(t, err, ErrOrderLocked)
}

func TestService_Transition_RejectsIllegalMove(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusPendingPayment)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The rejected move left the order untouched.
	current, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPendingPayment, current.Status)
}

func TestService_Transition_FullHappyPath(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)

	for _, target := range []domain.OrderStatus{
		domain.OrderStatusPendingPayment,
		domain.OrderStatusPaid,
		domain.OrderStatusProcessing,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
	} {
		o, err = svc.Transition(ctx, o.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, o.Status)
	}
}

func TestService_Cancel_BlockedByCompletedPayment(t *testing.T) {
	svc, payments := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)

	p := &domain.Payment{
		ID:      uuid.New(),
		OrderID: o.ID,
		Amount:  o.TotalAmount,
		Status:  domain.PaymentStatusCompleted,
	}
	require.NoError(t, payments.CreatePayment(ctx, p))

	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestService_Cancel_AllowedWithoutCompletedPayment(t *testing.T) {
	svc, payments := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)

	// A failed payment does not block cancellation.
	p := &domain.Payment{
		ID:      uuid.New(),
		OrderID: o.ID,
		Amount:  o.TotalAmount,
		Status:  domain.PaymentStatusFailed,
	}
	require.NoError(t, payments.CreatePayment(ctx, p))

	cancelled, err := svc.Transition(ctx, o.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestService_SetShipping_ValidatesPhone(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)

	_, err = svc.SetShipping(ctx, o.ID, "1 Main St", "not-a-phone")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = svc.SetShipping(ctx, o.ID, "1 Main St", "+123")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	updated, err := svc.SetShipping(ctx, o.ID, "1 Main St", "+380501234567")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", updated.ShippingAddress)
	assert.Equal(t, "+380501234567", updated.ContactPhone)

	// An empty phone is allowed; only a present one is validated.
	_, err = svc.SetShipping(ctx, o.ID, "2 Side St", "")
	require.NoError(t, err)
}

func TestService_SetShipping_LockedAfterPayment(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusPaid)
	require.NoError(t, err)

	_, err = svc.SetShipping(ctx, o.ID, "1 Main St", "+380501234567")
	assert.ErrorIs(t, err, ErrOrderLocked)
}

func TestService_Transition_PublishesEvent(t *testing.T) {
	bus := notify.NewBus(zaptest.NewLogger(t))
	var mu sync.Mutex
	var events []domain.Event
	bus.Subscribe(func(_ context.Context, e domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	svc := NewService(NewMemoryRepository(), payment.NewMemoryRepository(), bus, zaptest.NewLogger(t))
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, beansAndFilter())
	require.NoError(t, err)
	_, err = svc.Transition(ctx, o.ID, domain.OrderStatusPendingPayment)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventOrderCreated, events[0].Type)
	assert.Equal(t, domain.EventOrderStatusChanged, events[1].Type)
	assert.Equal(t, domain.OrderStatusNew, events[1].From)
	assert.Equal(t, domain.OrderStatusPendingPayment, events[1].To)
}

func TestService_AddLine_ConcurrentDisjointProducts(t *testing.T) {
	svc, _ := setupOrderService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, 1, []domain.OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: 10}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, pid := range []int64{2, 3, 4} {
		wg.Add(1)
		go func(pid int64) {
			defer wg.Done()
			_, err := svc.AddLine(ctx, o.ID, domain.OrderItem{ProductID: pid, Quantity: 1, UnitPrice: 10})
			assert.NoError(t, err)
		}(pid)
	}
	wg.Wait()

	final, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, final.Items, 4)
	assert.InDelta(t, 40.0, final.TotalAmount, 0.001)
}
