package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// BreakerStore wraps a Store with a circuit breaker so a failing catalog
// backend fails fast instead of piling up timeouts on every request worker.
type BreakerStore struct {
	next   Store
	lookup *gobreaker.CircuitBreaker[*domain.Product]
	list   *gobreaker.CircuitBreaker[[]domain.Product]
}

func NewBreakerStore(next Store) *BreakerStore {
	settings := gobreaker.Settings{
		Name:    "catalog",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing product is a valid answer, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProductNotFound)
		},
	}
	return &BreakerStore{
		next:   next,
		lookup: gobreaker.NewCircuitBreaker[*domain.Product](settings),
		list:   gobreaker.NewCircuitBreaker[[]domain.Product](settings),
	}
}

func (b *BreakerStore) Lookup(ctx context.Context, productID int64) (*domain.Product, error) {
	return b.lookup.Execute(func() (*domain.Product, error) {
		return b.next.Lookup(ctx, productID)
	})
}

func (b *BreakerStore) List(ctx context.Context, availableOnly bool) ([]domain.Product, error) {
	return b.list.Execute(func() ([]domain.Product, error) {
		return b.next.List(ctx, availableOnly)
	})
}
