package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidPaymentTransition rejects a payment status move outside the
	// PENDING -> COMPLETED/FAILED, COMPLETED -> REFUNDED table.
	ErrInvalidPaymentTransition = errors.New("illegal payment status transition")

	// ErrOrderNotPaid blocks a refund while the owning order has not reached
	// PAID or a later fulfilment state.
	ErrOrderNotPaid = errors.New("owning order is not paid")
)

// CouplingConflict reports that a payment completed but the owning order
// could not advance to PAID. It is the one "succeeded with caveat" outcome:
// the payment result stands and must never be rolled back; callers surface
// the conflict for logging and alerting.
type CouplingConflict struct {
	OrderID     uuid.UUID
	OrderStatus domain.OrderStatus
	Reason      string
}

func (c *CouplingConflict) String() string {
	return fmt.Sprintf("order %s in status %s not moved to PAID: %s",
		c.OrderID, c.OrderStatus, c.Reason)
}
