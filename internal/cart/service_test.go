package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/domain"
)

func setupCartService(t *testing.T) (*Service, *catalog.MemoryStore) {
	catalogStore := catalog.NewMemoryStore()
	catalogStore.Put(domain.Product{ID: 1, Name: "Beans", Price: 19.99, Available: true})
	catalogStore.Put(domain.Product{ID: 2, Name: "Filter", Price: 12.50, Available: true})
	catalogStore.Put(domain.Product{ID: 3, Name: "Cold Brew Kit", Price: 34.00, Available: false})

	svc := NewService(catalogStore, NewMemoryStore(), nil, zaptest.NewLogger(t))
	return svc, catalogStore
}

func TestService_Add_SnapshotsPrice(t *testing.T) {
	svc, catalogStore := setupCartService(t)
	ctx := context.Background()

	cart, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 19.99, cart.Lines[0].UnitPrice)

	// A catalog price change between adds does not touch the captured price.
	catalogStore.Put(domain.Product{ID: 1, Name: "Beans", Price: 25.00, Available: true})

	cart, err = svc.Add(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(3), cart.Lines[0].Quantity)
	assert.Equal(t, 19.99, cart.Lines[0].UnitPrice)
}

func TestService_Add_UnavailableProduct(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 3, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.Add(ctx, 1, 999, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestService_Add_InvalidQuantity(t *testing.T) {
	svc, _ := setupCartService(t)

	_, err := svc.Add(context.Background(), 1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_Get_MissingCartIsEmpty(t *testing.T) {
	svc, _ := setupCartService(t)

	cart, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cart.UserID)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.Total())
}

func TestService_Remove_AbsentProduct_NoOp(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, 999))

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestService_Clear(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, 1))

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestService_Total(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, 2, 1)
	require.NoError(t, err)

	total, err := svc.Total(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2*19.99+12.50, total, 0.001)
}

// Two concurrent adds of the same product must both land as quantity.
func TestService_Add_ConcurrentDoubleTap(t *testing.T) {
	svc, _ := setupCartService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, 1, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(2), cart.Lines[0].Quantity)
}
