package cart

import (
	"context"
	"errors"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// Cache is a read-through cache in front of the cart store.
type Cache interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Set(ctx context.Context, userID int64, cart *domain.Cart) error
	Delete(ctx context.Context, userID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
