package payment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/store"
)

// MemoryRepository implements Repository with in-memory storage.
type MemoryRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		payments: make(map[uuid.UUID]*domain.Payment),
	}
}

func (r *MemoryRepository) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetPaymentByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, exists := r.payments[id]
	if !exists {
		return nil, ErrPaymentNotFound
	}
	cp := *payment
	return &cp, nil
}

func (r *MemoryRepository) ListPaymentsByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Payment
	for _, payment := range r.payments {
		if payment.OrderID == orderID {
			cp := *payment
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) UpdatePaymentStatus(_ context.Context, id uuid.UUID, from, to domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, exists := r.payments[id]
	if !exists {
		return ErrPaymentNotFound
	}
	if payment.Status != from {
		return store.ErrConcurrentModification
	}

	payment.Status = to
	payment.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) HasCompletedPayment(_ context.Context, orderID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, payment := range r.payments {
		if payment.OrderID == orderID && payment.Status == domain.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}
