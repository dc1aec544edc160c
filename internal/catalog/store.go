package catalog

import (
	"context"
	"errors"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the catalog collaborator consumed by the lifecycle core.
// Consumers define this interface, not the backing implementation.
type Store interface {
	Lookup(ctx context.Context, productID int64) (*domain.Product, error)
	List(ctx context.Context, availableOnly bool) ([]domain.Product, error)
}
