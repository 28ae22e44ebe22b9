package repository

import (
	"context"
	"errors"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var (
	ErrCartNotFound      = errors.New("cart snapshot not found")
	ErrFavoritesNotFound = errors.New("favorites snapshot not found")
)

// SnapshotStore persists the two per-session storefront snapshots: the cart
// and the favorites/quick-orders list. Consumers define this interface, not
// the MongoDB implementation.
type SnapshotStore interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	PutCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error

	GetFavorites(ctx context.Context, sessionID string) (*domain.FavoritesState, error)
	PutFavorites(ctx context.Context, state *domain.FavoritesState) error
	DeleteFavorites(ctx context.Context, sessionID string) error
}
