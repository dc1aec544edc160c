package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/domain"
	"github.com/Karlson54/TelegramBot/internal/notify"
)

// OrderStore is the slice of the order ledger the payment side needs for the
// status coupling. Consumers define this interface, not the order package.
type OrderStore interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error
}

// Service implements the payment record operations and the coupling that
// links payment completion to order status advancement.
type Service struct {
	repo   Repository
	orders OrderStore
	bus    *notify.Bus
	logger *zap.Logger
}

func NewService(repo Repository, orders OrderStore, bus *notify.Bus, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		orders: orders,
		bus:    bus,
		logger: logger,
	}
}

// Initiate creates a payment in PENDING. The amount is fixed now: a later
// change to the order total does not retroactively invalidate the payment.
func (s *Service) Initiate(ctx context.Context, orderID uuid.UUID, amount float64, method string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %v", amount)
	}
	if _, err := s.orders.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		Amount:    amount,
		Status:    domain.PaymentStatusPending,
		Method:    method,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.Float64("amount", amount),
		zap.String("method", method))
	return payment, nil
}

// MarkCompleted transitions the payment to COMPLETED and, as a coupled side
// effect, moves the owning order to PAID when its current status permits.
// The payment write commits first; an order-side conflict (already
// cancelled, raced by another writer, store failure) aborts the coupling
// only and is reported as a non-nil CouplingConflict, never as an error.
func (s *Service) MarkCompleted(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, *CouplingConflict, error) {
	payment, err := s.transition(ctx, paymentID, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, domain.EventPaymentCompleted, payment)

	conflict := s.coupleOrderPaid(ctx, payment)
	if conflict != nil {
		s.logger.Warn("payment completed with coupling conflict",
			zap.String("payment_id", payment.ID.String()),
			zap.String("conflict", conflict.String()))
	}
	return payment, conflict, nil
}

// coupleOrderPaid re-reads the order right before the coupled write, then
// compare-and-sets its status. That is the documented compensating check:
// the payment status is already durable and is never rolled back here.
func (s *Service) coupleOrderPaid(ctx context.Context, payment *domain.Payment) *CouplingConflict {
	o, err := s.orders.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return &CouplingConflict{
			OrderID: payment.OrderID,
			Reason:  fmt.Sprintf("order lookup failed: %v", err),
		}
	}

	if !o.Status.CanTransition(domain.OrderStatusPaid) {
		return &CouplingConflict{
			OrderID:     o.ID,
			OrderStatus: o.Status,
			Reason:      "order status does not permit PAID",
		}
	}

	if err := s.orders.UpdateOrderStatus(ctx, o.ID, o.Status, domain.OrderStatusPaid); err != nil {
		return &CouplingConflict{
			OrderID:     o.ID,
			OrderStatus: o.Status,
			Reason:      fmt.Sprintf("order status write failed: %v", err),
		}
	}

	s.publish(ctx, domain.EventOrderStatusChanged, payment)
	return nil
}

// MarkFailed transitions the payment to FAILED.
func (s *Service) MarkFailed(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.transition(ctx, paymentID, domain.PaymentStatusFailed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventPaymentFailed, payment)
	return payment, nil
}

// Refund transitions a completed payment to REFUNDED. Legal only once the
// owning order is PAID or in a later fulfilment state.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransition(domain.PaymentStatusRefunded) {
		return nil, fmt.Errorf("%w: %s -> %s",
			ErrInvalidPaymentTransition, payment.Status, domain.PaymentStatusRefunded)
	}

	o, err := s.orders.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	if !orderPaidOrLater(o.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrOrderNotPaid, o.Status)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, paymentID, payment.Status, domain.PaymentStatusRefunded); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusRefunded

	s.publish(ctx, domain.EventPaymentRefunded, payment)
	return payment, nil
}

func (s *Service) Get(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	return s.repo.GetPaymentByID(ctx, paymentID)
}

func (s *Service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Payment, error) {
	return s.repo.ListPaymentsByOrderID(ctx, orderID)
}

func (s *Service) transition(ctx context.Context, paymentID uuid.UUID, target domain.PaymentStatus) (*domain.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidPaymentTransition, payment.Status, target)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, paymentID, payment.Status, target); err != nil {
		return nil, err
	}
	payment.Status = target
	return payment, nil
}

func orderPaidOrLater(status domain.OrderStatus) bool {
	switch status {
	case domain.OrderStatusPaid, domain.OrderStatusProcessing,
		domain.OrderStatusShipped, domain.OrderStatusDelivered:
		return true
	}
	return false
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, payment *domain.Payment) {
	if s.bus == nil {
		return
	}
	event := domain.Event{
		Type:       eventType,
		OrderID:    payment.OrderID,
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		OccurredAt: time.Now(),
	}
	if eventType == domain.EventOrderStatusChanged {
		event.To = domain.OrderStatusPaid
	}
	s.bus.Publish(ctx, event)
}
