package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"new to pending payment", OrderStatusNew, OrderStatusPendingPayment, true},
		{"new directly to paid", OrderStatusNew, OrderStatusPaid, true},
		{"new to cancelled", OrderStatusNew, OrderStatusCancelled, true},
		{"new to shipped", OrderStatusNew, OrderStatusShipped, false},
		{"pending payment to paid", OrderStatusPendingPayment, OrderStatusPaid, true},
		{"pending payment to cancelled", OrderStatusPendingPayment, OrderStatusCancelled, true},
		{"pending payment to shipped", OrderStatusPendingPayment, OrderStatusShipped, false},
		{"paid to processing", OrderStatusPaid, OrderStatusProcessing, true},
		{"paid to cancelled", OrderStatusPaid, OrderStatusCancelled, false},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusNew, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusNew, false},
		{"no self transition", OrderStatusPaid, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusNew.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	// Accepts both the stored uppercase form and the lowercase API form.
	for _, raw := range []string{"pending_payment", "PENDING_PAYMENT", "Pending_Payment"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusPendingPayment, status)
	}

	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("teleported")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	for _, raw := range []string{"completed", "COMPLETED"} {
		status, err := ParsePaymentStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusCompleted, status)
	}

	_, err := ParsePaymentStatus("teleported")
	assert.Error(t, err)
}

func TestOrder_MergeItem(t *testing.T) {
	order := &Order{Status: OrderStatusNew}

	order.MergeItem(OrderItem{ProductID: 1, Name: "Beans", Quantity: 2, UnitPrice: 19.99})
	order.MergeItem(OrderItem{ProductID: 2, Name: "Filter", Quantity: 1, UnitPrice: 12.50})

	// Same product merges by quantity; price from the first add wins.
	order.MergeItem(OrderItem{ProductID: 1, Name: "Beans", Quantity: 3, UnitPrice: 25.00})

	require.Len(t, order.Items, 2)
	assert.Equal(t, int32(5), order.Items[0].Quantity)
	assert.Equal(t, 19.99, order.Items[0].UnitPrice)
	assert.InDelta(t, 5*19.99+12.50, order.TotalAmount, 0.001)
}

func TestOrder_RecomputeTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 19.98},
			{ProductID: 2, Quantity: 1, UnitPrice: 19.99},
		},
	}
	order.RecomputeTotal()

	assert.InDelta(t, 39.97, order.TotalAmount, 0.001)
}

func TestPaymentStatus_CanTransition(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransition(PaymentStatusCompleted))
	assert.True(t, PaymentStatusPending.CanTransition(PaymentStatusFailed))
	assert.True(t, PaymentStatusCompleted.CanTransition(PaymentStatusRefunded))

	assert.False(t, PaymentStatusCompleted.CanTransition(PaymentStatusPending))
	assert.False(t, PaymentStatusFailed.CanTransition(PaymentStatusCompleted))
	assert.False(t, PaymentStatusRefunded.CanTransition(PaymentStatusCompleted))
	assert.False(t, PaymentStatusPending.CanTransition(PaymentStatusRefunded))
}
