package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/order"
)

// CartSource is the slice of the cart API checkout needs.
// Consumers define this interface, not the cart package.
type CartSource interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

// OrderCreator turns a snapshot of cart lines into a new order.
type OrderCreator interface {
	Create(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error)
}

// Service converts a user's cart into an order and empties the cart.
type Service struct {
	carts  CartSource
	orders OrderCreator
	logger *zap.Logger
}

func NewService(carts CartSource, orders OrderCreator, logger *zap.Logger) *Service {
	return &Service{
		carts:  carts,
		orders: orders,
		logger: logger,
	}
}

// Checkout snapshots the cart into a new NEW order and clears the cart.
// An empty cart fails with order.ErrEmptyOrder before anything is written.
// A failed clear after a committed order is logged, not returned: the order
// already exists and the stale cart expires on its own.
func (s *Service) Checkout(ctx context.Context, userID int64) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Snapshot()
	if len(items) == 0 {
		return nil, order.ErrEmptyOrder
	}

	o, err := s.orders.Create(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn("cart not cleared after checkout",
			zap.Int64("user_id", userID),
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("checkout completed",
		zap.Int64("user_id", userID),
		zap.String("order_id", o.ID.String()),
		zap.Float64("total", o.TotalAmount))
	return o, nil
}
