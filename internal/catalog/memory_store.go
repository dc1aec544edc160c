package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// MemoryStore implements Store with in-memory storage. Used by tests and
// local runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
	}
}

// Put inserts or replaces a product. Used for seeding.
func (s *MemoryStore) Put(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

func (s *MemoryStore) Lookup(_ context.Context, productID int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[productID]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (s *MemoryStore) List(_ context.Context, availableOnly bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if availableOnly && !product.Available {
			continue
		}
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
