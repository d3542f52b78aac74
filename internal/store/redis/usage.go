package redis

import (
	"context"
	"fmt"
	"strconv"
)

const (
	statHits   = "hits"
	statMisses = "misses"
)

// RenderStats counts render cache lookups.
type RenderStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// RecordRenderLookup counts one cache lookup.
func (s *Store) RecordRenderLookup(ctx context.Context, hit bool) error {
	field := statMisses
	if hit {
		field = statHits
	}
	if err := s.client.HIncrBy(ctx, KeyRenderStats, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to record render lookup: %w", err)
	}
	return nil
}

func (s *Store) GetRenderStats(ctx context.Context) (RenderStats, error) {
	raw, err := s.client.HGetAll(ctx, KeyRenderStats).Result()
	if err != nil {
		return RenderStats{}, fmt.Errorf("failed to get render stats: %w", err)
	}
	var stats RenderStats
	stats.Hits, _ = strconv.ParseInt(raw[statHits], 10, 64)
	stats.Misses, _ = strconv.ParseInt(raw[statMisses], 10, 64)
	return stats, nil
}
