package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder rejects order creation from an empty line set.
	ErrEmptyOrder = errors.New("order must contain at least one line")

	// ErrOrderLocked rejects line or shipping mutations once the order status
	// has advanced past the states that permit them.
	ErrOrderLocked = errors.New("order is locked for this mutation")

	// ErrInvalidTransition rejects a target status outside the
	// allowed-successor set of the current status. Wrapped with the
	// (current, requested) pair at the call site.
	ErrInvalidTransition = errors.New("illegal order status transition")

	// ErrOrderNotCancellable blocks cancellation once a completed payment
	// exists for the order.
	ErrOrderNotCancellable = errors.New("order has a completed payment and cannot be cancelled")

	ErrInvalidPhone = errors.New("invalid contact phone")
)
