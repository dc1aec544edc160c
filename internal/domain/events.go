package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventPaymentCompleted   EventType = "payment_completed"
	EventPaymentFailed      EventType = "payment_failed"
	EventPaymentRefunded    EventType = "payment_refunded"
)

// Event is a discrete lifecycle transition published for downstream
// notification after the owning transaction committed.
type Event struct {
	Type       EventType   `json:"type"`
	OrderID    uuid.UUID   `json:"order_id"`
	PaymentID  uuid.UUID   `json:"payment_id,omitempty"`
	UserID     int64       `json:"user_id,omitempty"`
	From       OrderStatus `json:"from,omitempty"`
	To         OrderStatus `json:"to,omitempty"`
	Amount     float64     `json:"amount,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
