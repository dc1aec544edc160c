package order

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/notify"
)

// phonePattern: optional leading +, then 10 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// shippingStates are the only states in which shipping details may change.
var shippingStates = []domain.OrderStatus{
	domain.OrderStatusNew,
	domain.OrderStatusPendingPayment,
}

// PaymentChecker is the narrow slice of the payment ledger the order side
// needs: cancellation is blocked once a completed payment exists.
type PaymentChecker interface {
	HasCompletedPayment(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// Service implements the order aggregate operations and the lifecycle state
// machine. Every successful mutation is published on the bus after the
// repository write returned, so subscribers only see committed transitions.
type Service struct {
	repo     Repository
	payments PaymentChecker
	bus      *notify.Bus
	logger   *zap.Logger
}

func NewService(repo Repository, payments PaymentChecker, bus *notify.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		payments: payments,
		bus:      bus,
		logger:   logger,
	}
}

// Create persists a new order in state NEW seeded from a non-empty cart
// snapshot. The total is computed from the given lines, never supplied.
func (s *Service) Create(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusNew,
		Items:     make([]domain.OrderItem, len(items)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	copy(order.Items, items)
	order.RecomputeTotal()

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("user_id", userID),
		zap.Float64("total", order.TotalAmount))
	s.publish(ctx, domain.Event{
		Type:       domain.EventOrderCreated,
		OrderID:    order.ID,
		UserID:     userID,
		To:         order.Status,
		Amount:     order.TotalAmount,
		OccurredAt: time.Now(),
	})
	return order, nil
}

// AddLine appends or merges a line while the order is still NEW. The
// repository recomputes the total inside the same atomic unit.
func (s *Service) AddLine(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) (*domain.Order, error) {
	if item.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", item.Quantity)
	}

	return s.repo.AddOrderLine(ctx, orderID, item)
}

// Transition moves the order to target if target is in the allowed-successor
// set of the current status. A rejected transition leaves the order
// unchanged. CANCELLED additionally requires that no completed payment
// exists for the order.
func (s *Service) Transition(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	if target == domain.OrderStatusCancelled {
		completed, err := s.payments.HasCompletedPayment(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if completed {
			return nil, ErrOrderNotCancellable
		}
	}

	// Compare-and-set against the status we validated. A concurrent writer
	// that moved the status first makes this a retryable failure instead of
	// a silent double-apply.
	if err := s.repo.UpdateOrderStatus(ctx, orderID, order.Status, target); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = target
	s.logger.Info("order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", from.String()),
		zap.String("to", target.String()))
	s.publish(ctx, domain.Event{
		Type:       domain.EventOrderStatusChanged,
		OrderID:    orderID,
		UserID:     order.UserID,
		From:       from,
		To:         target,
		OccurredAt: time.Now(),
	})
	return order, nil
}

// SetShipping stores the shipping address and contact phone. The phone, when
// given, must match the phone grammar; shipping is editable only in NEW and
// PENDING_PAYMENT.
func (s *Service) SetShipping(ctx context.Context, orderID uuid.UUID, address, phone string) (*domain.Order, error) {
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	return s.repo.SetShipping(ctx, orderID, address, phone, shippingStates)
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}
