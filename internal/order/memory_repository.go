package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/store"
)

// MemoryRepository implements Repository with in-memory storage. The mutex
// spans each whole mutation, which gives the same atomicity the Postgres
// implementation gets from a transaction.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *MemoryRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

func (r *MemoryRepository) ListOrdersByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, order.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) AddOrderLine(_ context.Context, orderID uuid.UUID, item domain.OrderItem) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusNew {
		return nil, ErrOrderLocked
	}

	order.MergeItem(item)
	order.UpdatedAt = time.Now()
	return order.Clone(), nil
}

func (r *MemoryRepository) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return ErrOrderNotFound
	}
	if order.Status != from {
		return store.ErrConcurrentModification
	}

	order.Status = to
	order.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) SetShipping(_ context.Context, orderID uuid.UUID, address, phone string, allowed []domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return nil, ErrOrderNotFound
	}

	permitted := false
	for _, status := range allowed {
		if order.Status == status {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, ErrOrderLocked
	}

	order.ShippingAddress = address
	order.ContactPhone = phone
	order.UpdatedAt = time.Now()
	return order.Clone(), nil
}
