package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// Repository persists payments in the durable ledger. Status writes are
// compare-and-set like the order side.
type Repository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error

	GetPaymentByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	ListPaymentsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error)

	// UpdatePaymentStatus writes to only when the stored status still equals
	// from; store.ErrConcurrentModification on a lost race.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus) error

	// HasCompletedPayment reports whether any payment for the order is
	// COMPLETED. Consumed by the order side to block cancellation.
	HasCompletedPayment(ctx context.Context, orderID uuid.UUID) (bool, error)
}
