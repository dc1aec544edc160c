package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var paymentSuccessors = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

// CanTransition reports whether to is in the allowed-successor set of s.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentSuccessors[s] {
		if next == to {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s PaymentStatus) String() string {
	return string(s)
}

// ParsePaymentStatus converts an external representation into a known status.
// Case-insensitive, like ParseOrderStatus.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch s := PaymentStatus(strings.ToUpper(raw)); s {
	case PaymentStatusPending, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return s, nil
	}
	return "", fmt.Errorf("unknown payment status %q", raw)
}

// Payment is one attempt to settle an order's total. Several payments may
// exist per order (retries); each tracks its own status. Amount is fixed at
// creation and is never recomputed from the order afterwards.
type Payment struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Amount        float64
	Status        PaymentStatus
	Method        string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
