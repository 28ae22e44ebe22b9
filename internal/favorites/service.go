// Package favorites manages the per-session quick-order list, the second
// storage key next to the cart snapshot.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/repository"
)

type Service struct {
	store repository.SnapshotStore
}

func NewService(store repository.SnapshotStore) *Service {
	return &Service{store: store}
}

// List returns the session's favorites, oldest first. A missing or
// malformed snapshot is an empty list, not an error.
func (s *Service) List(ctx context.Context, sessionID string) ([]domain.Favorite, error) {
	state, err := s.store.GetFavorites(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoritesNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return state.Favorites, nil
}

// Add pins a dish. Adding an already-pinned dish is a no-op.
func (s *Service) Add(ctx context.Context, sessionID string, fav domain.Favorite) error {
	state, err := s.store.GetFavorites(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrFavoritesNotFound) {
			return fmt.Errorf("failed to load favorites: %w", err)
		}
		state = &domain.FavoritesState{SessionID: sessionID}
	}

	for _, existing := range state.Favorites {
		if existing.ItemID == fav.ItemID {
			return nil
		}
	}

	state.Favorites = append(state.Favorites, fav)
	state.UpdatedAt = fav.AddedAt
	if err := s.store.PutFavorites(ctx, state); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

// Remove unpins a dish. The storage entry is deleted entirely once the
// list is empty.
func (s *Service) Remove(ctx context.Context, sessionID, itemID string) error {
	state, err := s.store.GetFavorites(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoritesNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	kept := state.Favorites[:0]
	for _, fav := range state.Favorites {
		if fav.ItemID != itemID {
			kept = append(kept, fav)
		}
	}
	state.Favorites = kept

	if len(state.Favorites) == 0 {
		if err := s.store.DeleteFavorites(ctx, sessionID); err != nil &&
			!errors.Is(err, repository.ErrFavoritesNotFound) {
			log.Printf("failed to delete favorites snapshot: %v", err)
		}
		return nil
	}

	if err := s.store.PutFavorites(ctx, state); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}
