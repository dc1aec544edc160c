package cart

import (
	"context"
	"errors"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Store persists per-user carts. A cart is owned by exactly one user session;
// no cross-user locking is needed, but concurrent writes from the same user
// (double-tap) must serialize so quantity increments are never lost.
// Consumers define this interface, not the backing implementation.
type Store interface {
	// Get returns the user's cart or ErrCartNotFound.
	Get(ctx context.Context, userID int64) (*domain.Cart, error)

	// AddLine merges the line into the cart atomically: an existing product
	// gets its quantity incremented, keeping the first-add unit price.
	// A missing cart is created.
	AddLine(ctx context.Context, userID int64, line domain.CartLine) (*domain.Cart, error)

	// RemoveLine drops the line if present. Absent product or cart is a no-op.
	RemoveLine(ctx context.Context, userID int64, productID int64) error

	// Clear empties the user's cart. Clearing a missing cart is a no-op.
	Clear(ctx context.Context, userID int64) error
}
