package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

type mockRepo struct {
	mu    sync.Mutex
	items []*domain.MenuItem
	err   error
	calls int
}

func (m *mockRepo) ListItems(ctx context.Context) ([]*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.items, m.err
}

func (m *mockRepo) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}

func (m *mockRepo) RunMigrations(path string) error { return nil }
func (m *mockRepo) Close() error                    { return nil }

func (m *mockRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCache struct {
	mu      sync.Mutex
	items   []*domain.MenuItem
	getErr  error
	setErr  error
	setHits int
}

func (m *mockCache) Get(ctx context.Context) ([]*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.items, nil
}

func (m *mockCache) Set(ctx context.Context, items []*domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.items = items
	m.getErr = nil
	m.setHits++
	return nil
}

func (m *mockCache) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.getErr = ErrCacheMiss
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setHits
}

func TestListItems_CacheHit(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{items: sampleMenu()}
	svc := NewService(repo, cache)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 0, repo.callCount())
}

func TestListItems_CacheMiss_FillsCache(t *testing.T) {
	repo := &mockRepo{items: sampleMenu()}
	cache := &mockCache{getErr: ErrCacheMiss}
	svc := NewService(repo, cache)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, repo.callCount())

	// cache fill happens off the request path
	require.Eventually(t, func() bool {
		return cache.setCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestListItems_CacheBroken_FallsBackToRepo(t *testing.T) {
	repo := &mockRepo{items: sampleMenu()}
	cache := &mockCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewService(repo, cache)

	items, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListItems_RepoError(t *testing.T) {
	repo := &mockRepo{err: errors.New("db locked")}
	cache := &mockCache{getErr: ErrCacheMiss}
	svc := NewService(repo, cache)

	_, err := svc.ListItems(context.Background())
	require.Error(t, err)
}

func TestGetItem(t *testing.T) {
	repo := &mockRepo{items: sampleMenu()}
	svc := NewService(repo, &mockCache{getErr: ErrCacheMiss})

	it, err := svc.GetItem(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Ndolè", it.Name)

	_, err = svc.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestGetItem_UnavailableDishHidden(t *testing.T) {
	items := sampleMenu()
	items[0].Available = false
	repo := &mockRepo{items: items}
	svc := NewService(repo, &mockCache{getErr: ErrCacheMiss})

	_, err := svc.GetItem(context.Background(), items[0].ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
