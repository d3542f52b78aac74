package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// SaveBookmark stores one bookmark and registers its ID.
func (s *Store) SaveBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	return s.SaveBookmarksMany(ctx, []*domain.Bookmark{bookmark})
}

func (s *Store) GetBookmark(ctx context.Context, id int64) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := getJSON(ctx, s.client, BookmarkKey(id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetAllBookmarks returns the stored bookmarks ordered by ID.
func (s *Store) GetAllBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	bookmarks := []*domain.Bookmark{}
	err := loadMembers(ctx, s.client, KeyAllBookmarks,
		func(id string) string { return KeyPrefixBookmark + id },
		func(data []byte) error {
			var b domain.Bookmark
			if err := json.Unmarshal(data, &b); err != nil {
				return err
			}
			bookmarks = append(bookmarks, &b)
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(bookmarks, func(i, j int) bool { return bookmarks[i].ID < bookmarks[j].ID })
	return bookmarks, nil
}

func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.SRem(ctx, KeyAllBookmarks, strconv.FormatInt(id, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}
	return nil
}

// SaveBookmarksMany stores bookmarks in a single pipeline.
func (s *Store) SaveBookmarksMany(ctx context.Context, bookmarks []*domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()

	for _, b := range bookmarks {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %d: %w", b.ID, err)
		}
		pipe.Set(ctx, BookmarkKey(b.ID), data, s.ttl)
		pipe.SAdd(ctx, KeyAllBookmarks, strconv.FormatInt(b.ID, 10))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}
