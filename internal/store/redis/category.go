package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// SaveCategoriesMany stores categories in a single pipeline.
func (s *Store) SaveCategoriesMany(ctx context.Context, categories []*domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()

	for _, c := range categories {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal category %d: %w", c.ID, err)
		}
		pipe.Set(ctx, CategoryKey(c.ID), data, s.ttl)
		pipe.SAdd(ctx, KeyAllCategories, strconv.FormatInt(c.ID, 10))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := getJSON(ctx, s.client, CategoryKey(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAllCategories returns the stored categories ordered by ID.
func (s *Store) GetAllCategories(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	err := loadMembers(ctx, s.client, KeyAllCategories,
		func(id string) string { return KeyPrefixCategory + id },
		func(data []byte) error {
			var c domain.Category
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			categories = append(categories, &c)
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, CategoryKey(id))
	pipe.SRem(ctx, KeyAllCategories, strconv.FormatInt(id, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}
