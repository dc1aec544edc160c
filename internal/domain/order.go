package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "NEW"
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// orderSuccessors is the closed transition table for the order lifecycle.
// PAID is reachable from NEW directly because a payment can complete before
// the order was explicitly moved to PENDING_PAYMENT.
var orderSuccessors = map[OrderStatus][]OrderStatus{
	OrderStatusNew:            {OrderStatusPendingPayment, OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPendingPayment: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusProcessing},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered},
}

// CanTransition reports whether to is in the allowed-successor set of s.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderSuccessors[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus converts an external representation into a known status.
// Input is case-insensitive: API clients send lowercase, the store holds the
// uppercase constants. In-core logic works with the typed constants only.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(strings.ToUpper(raw)); s {
	case OrderStatusNew, OrderStatusPendingPayment, OrderStatusPaid,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// OrderItem is one product+quantity+price entry within an order. The unit
// price was snapshotted from the cart at checkout and is never re-read.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is the durable committed purchase record.
type Order struct {
	ID              uuid.UUID
	UserID          int64
	Status          OrderStatus
	Items           []OrderItem
	TotalAmount     float64
	ShippingAddress string
	ContactPhone    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MergeItem appends or merges a line by product id (same semantics as the
// cart) and recomputes the total in the same step, so callers holding the
// order under a lock never expose an inconsistent lines/total pair.
func (o *Order) MergeItem(item OrderItem) {
	merged := false
	for i := range o.Items {
		if o.Items[i].ProductID == item.ProductID {
			o.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		o.Items = append(o.Items, item)
	}
	o.RecomputeTotal()
}

// RecomputeTotal restores the invariant
// TotalAmount == sum(item.UnitPrice * item.Quantity).
func (o *Order) RecomputeTotal() {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.TotalAmount = total
}

// Clone returns a deep copy so repositories can hand out orders without
// sharing the underlying item slice.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}
