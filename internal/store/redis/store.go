// Package redis persists the bookmark catalog as JSON records and caches
// rendered listings.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// DefaultRecordTTL bounds how long a snapshot record outlives the
// reloads that refresh it.
const DefaultRecordTTL = 30 * 24 * time.Hour

// ErrNotFound is returned when a record key does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultRecordTTL}
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// getJSON loads and decodes one record.
func getJSON(ctx context.Context, c *redis.Client, key string, v any) error {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// loadMembers fetches every record listed in setKey in one MGET and
// decodes them with decode. Expired or malformed records are skipped.
func loadMembers(ctx context.Context, c *redis.Client, setKey string, keyOf func(string) string, decode func([]byte) error) error {
	ids, err := c.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", setKey, err)
	}
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", setKey, err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		_ = decode([]byte(raw))
	}
	return nil
}

// Name identifies the store in logs and status reports.
func (s *Store) Name() string { return "redis" }

// SaveSnapshot stores every category and bookmark of snap.
func (s *Store) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if err := s.SaveCategoriesMany(ctx, snap.Categories); err != nil {
		return err
	}
	return s.SaveBookmarksMany(ctx, snap.Bookmarks)
}

// LoadSnapshot reads back everything SaveSnapshot stored.
func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	categories, err := s.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.GetAllBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Categories: categories, Bookmarks: bookmarks}, nil
}
