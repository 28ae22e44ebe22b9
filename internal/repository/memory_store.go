package repository

import (
	"context"
	"sync"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

// MemoryStore implements SnapshotStore with in-memory maps. Used for unit
// tests and for running the storefront without a MongoDB instance.
type MemoryStore struct {
	mu        sync.RWMutex
	carts     map[string]domain.Cart
	favorites map[string]domain.FavoritesState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:     make(map[string]domain.Cart),
		favorites: make(map[string]domain.FavoritesState),
	}
}

func (s *MemoryStore) GetCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	// Copy so callers cannot mutate stored state through the slice.
	cart.Items = append([]domain.CartLineItem(nil), cart.Items...)
	return &cart, nil
}

func (s *MemoryStore) PutCart(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *cart
	stored.Items = append([]domain.CartLineItem(nil), cart.Items...)
	s.carts[cart.SessionID] = stored
	return nil
}

func (s *MemoryStore) DeleteCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[sessionID]; !ok {
		return ErrCartNotFound
	}
	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryStore) GetFavorites(_ context.Context, sessionID string) (*domain.FavoritesState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.favorites[sessionID]
	if !ok {
		return nil, ErrFavoritesNotFound
	}
	state.Favorites = append([]domain.Favorite(nil), state.Favorites...)
	return &state, nil
}

func (s *MemoryStore) PutFavorites(_ context.Context, state *domain.FavoritesState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *state
	stored.Favorites = append([]domain.Favorite(nil), state.Favorites...)
	s.favorites[state.SessionID] = stored
	return nil
}

func (s *MemoryStore) DeleteFavorites(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[sessionID]; !ok {
		return ErrFavoritesNotFound
	}
	delete(s.favorites, sessionID)
	return nil
}
