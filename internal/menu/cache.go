package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// MenuCache fronts the catalog repository. The menu changes rarely, so a
// short TTL with jitter is plenty.
type MenuCache interface {
	Get(ctx context.Context) ([]*domain.MenuItem, error)
	Set(ctx context.Context, items []*domain.MenuItem) error
	Delete(ctx context.Context) error
}

const menuCacheKey = "menu:items"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context) ([]*domain.MenuItem, error) {
	data, err := r.client.Get(ctx, menuCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []*domain.MenuItem
	if err2 := json.Unmarshal(data, &items); err2 != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err2)
	}

	return items, nil
}

func (r RedisCache) Set(ctx context.Context, items []*domain.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, menuCacheKey, string(data), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, menuCacheKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}
