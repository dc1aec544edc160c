package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// Repository persists orders in the durable ledger. Every method is a single
// atomic unit: a reader can never observe a line list and a total that are
// mutually inconsistent, and status writes are compare-and-set so two racing
// transitions cannot both succeed from a stale read.
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error

	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)

	// AddOrderLine merges the item into the order (same product-id merge
	// semantics as the cart) and recomputes the total within the same atomic
	// unit. Legal only while the order is NEW; ErrOrderLocked otherwise.
	AddOrderLine(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (*domain.Order, error)

	// UpdateOrderStatus writes to only when the stored status still equals
	// from. A lost race returns store.ErrConcurrentModification and leaves
	// the order unchanged.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error

	// SetShipping writes the shipping address and contact phone, but only
	// while the current status is in allowed; ErrOrderLocked otherwise.
	SetShipping(ctx context.Context, orderID uuid.UUID, address, phone string, allowed []domain.OrderStatus) (*domain.Order, error)
}
