package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Karlson54/TelegramBot/internal/catalog"
	"github.com/Karlson54/TelegramBot/internal/domain"
)

var (
	// ErrProductUnavailable covers both a product missing from the catalog
	// and one marked unavailable.
	ErrProductUnavailable = errors.New("product unavailable")

	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service implements the cart operations of the lifecycle core. Reads go
// through the cache with singleflight to prevent a stampede on the same
// user's key; writes invalidate.
type Service struct {
	catalog catalog.Store
	store   Store
	cache   Cache // optional
	logger  *zap.Logger
	sfg     singleflight.Group
}

func NewService(catalogStore catalog.Store, store Store, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalogStore,
		store:   store,
		cache:   cache,
		logger:  logger,
	}
}

// Add looks the product up in the catalog, snapshots its current price and
// merges it into the user's cart. Adding an already-present product only
// increments quantity; the price captured on the first add is kept.
func (s *Service) Add(ctx context.Context, userID, productID int64, quantity int32) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if !product.Available {
		return nil, ErrProductUnavailable
	}

	line := domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}

	cart, err := s.store.AddLine(ctx, userID, line)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return cart, nil
}

// Get returns the user's cart; a user without a cart gets an empty one.
func (s *Service) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, userID)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				s.logger.Warn("cart cache get failed", zap.Int64("user_id", userID), zap.Error(err))
			}
		}

		cart, err := s.store.Get(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
		}
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go func() {
				setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if errSet := s.cache.Set(setCtx, userID, cart); errSet != nil {
					s.logger.Warn("cart cache set failed", zap.Int64("user_id", userID), zap.Error(errSet))
				}
			}()
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Remove drops a line from the cart. Removing an absent product is a no-op.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.store.RemoveLine(ctx, userID, productID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// Total returns the sum of price times quantity across the cart's lines.
func (s *Service) Total(ctx context.Context, userID int64) (float64, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

func (s *Service) invalidateCache(userID int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidate failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
