// Package menu is the thin read-only catalog collaborator: dishes the
// storefront can put in a cart. Menu administration stays out of scope.
package menu

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

type Service struct {
	repo  RepoInterface
	cache MenuCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo RepoInterface, cache MenuCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// ListItems returns the available dishes, served from cache when possible.
// Concurrent cache misses collapse into one repository read.
func (s *Service) ListItems(ctx context.Context) ([]*domain.MenuItem, error) {
	v, err, _ := s.sfg.Do(menuCacheKey, func() (interface{}, error) {
		items, err := s.cache.Get(ctx)
		if err == nil {
			return items, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("menu cache get error: %v", err) // log cache error but continue
		}

		items, errList := s.repo.ListItems(ctx)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), items); errSet != nil {
				log.Printf("menu cache set error: %v", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.MenuItem), nil
}

// GetItem fetches one dish. A dish toggled off the menu is not addressable
// by id either, so it cannot sneak into a cart while hidden from the list.
func (s *Service) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemNotFound
	}
	return item, nil
}
