package cart

import (
	"context"
	"sync"
	"time"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// MemoryStore implements Store with in-memory storage. The single mutex
// serializes same-user double-taps; carts of different users never contend
// for long since operations are O(lines).
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[int64]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[int64]*domain.Cart),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[userID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return cart.Clone(), nil
}

func (s *MemoryStore) AddLine(_ context.Context, userID int64, line domain.CartLine) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cart, exists := s.carts[userID]
	if !exists {
		cart = &domain.Cart{UserID: userID, CreatedAt: now}
		s.carts[userID] = cart
	}
	cart.Merge(line)
	cart.UpdatedAt = now
	return cart.Clone(), nil
}

func (s *MemoryStore) RemoveLine(_ context.Context, userID int64, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, exists := s.carts[userID]
	if !exists {
		return nil
	}
	cart.Remove(productID)
	cart.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
