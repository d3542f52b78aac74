package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRenderTTL is used when CacheRender is given a non-positive TTL.
const DefaultRenderTTL = 10 * time.Minute

// CacheRender stores a rendered listing under the hash of its canonical options.
func (s *Store) CacheRender(ctx context.Context, canonical, html string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultRenderTTL
	}
	if err := s.client.Set(ctx, RenderKey(canonical), html, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache render: %w", err)
	}
	return nil
}

// GetCachedRender returns the cached listing and whether it was found.
func (s *Store) GetCachedRender(ctx context.Context, canonical string) (string, bool, error) {
	html, err := s.client.Get(ctx, RenderKey(canonical)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached render: %w", err)
	}
	return html, true, nil
}

// FlushRenders drops every cached listing and returns how many were removed.
func (s *Store) FlushRenders(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixRender+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete render key: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to flush render cache: %w", err)
	}
	return removed, nil
}
