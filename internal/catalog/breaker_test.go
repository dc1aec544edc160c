package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

type flakyStore struct {
	inner *MemoryStore
	fail  bool
}

func (f *flakyStore) Lookup(ctx context.Context, productID int64) (*domain.Product, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	return f.inner.Lookup(ctx, productID)
}

func (f *flakyStore) List(ctx context.Context, availableOnly bool) ([]domain.Product, error) {
	if f.fail {
		return nil, errors.New("backend down")
	}
	return f.inner.List(ctx, availableOnly)
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	inner := NewMemoryStore()
	inner.Put(domain.Product{ID: 1, Name: "Beans", Price: 19.99, Available: true})
	breaker := NewBreakerStore(inner)
	ctx := context.Background()

	product, err := breaker.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beans", product.Name)

	products, err := breaker.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	breaker := NewBreakerStore(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := breaker.Lookup(ctx, 404)
		assert.ErrorIs(t, err, ErrProductNotFound)
	}
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	flaky := &flakyStore{inner: NewMemoryStore(), fail: true}
	breaker := NewBreakerStore(flaky)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := breaker.Lookup(ctx, 1)
		require.Error(t, err)
	}

	_, err := breaker.Lookup(ctx, 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
