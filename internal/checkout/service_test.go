package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Karlson54/TelegramBot/internal/cart"
	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/order"
	"github.com/Karlson54/TelegramBot/internal/payment"
)

func setupCheckout(t *testing.T) (*Service, *cart.Service, *order.Service) {
	catalogStore := catalog.NewMemoryStore()
	catalogStore.Put(domain.Product{ID: 1, Name: "Beans", Price: 19.99, Available: true})
	catalogStore.Put(domain.Product{ID: 2, Name: "Filter", Price: 12.50, Available: true})

	logger := zaptest.NewLogger(t)
	carts := cart.NewService(catalogStore, cart.NewMemoryStore(), nil, logger)
	orders := order.NewService(order.NewMemoryRepository(), payment.NewMemoryRepository(), nil, logger)

	return NewService(carts, orders, logger), carts, orders
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	svc, _, _ := setupCheckout(t)

	_, err := svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestService_Checkout_SnapshotsCartAndClears(t *testing.T) {
	svc, carts, orders := setupCheckout(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = carts.Add(ctx, 1, 2, 1)
	require.NoError(t, err)

	o, err := svc.Checkout(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusNew, o.Status)
	assert.Len(t, o.Items, 2)
	assert.InDelta(t, 2*19.99+12.50, o.TotalAmount, 0.001)

	// The cart is empty after checkout.
	c, err := carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	// The order is durable.
	stored, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
}

type failingClearCarts struct {
	*cart.Service
}

func (f failingClearCarts) Clear(context.Context, int64) error {
	return errors.New("store is down")
}

func TestService_Checkout_ClearFailureStillReturnsOrder(t *testing.T) {
	_, carts, orders := setupCheckout(t)
	ctx := context.Background()

	_, err := carts.Add(ctx, 1, 1, 1)
	require.NoError(t, err)

	svc := NewService(failingClearCarts{carts}, orders, zaptest.NewLogger(t))

	o, err := svc.Checkout(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, o)

	stored, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusNew, stored.Status)
}
