// Package scheduler runs the background jobs that keep the catalog fresh:
// reloading the bookmark source, warming the index at startup and
// collecting disabled bookmarks.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// Source produces a full catalog snapshot. Name is the provenance tag its
// bookmarks carry in Bookmark.Sources.
type Source interface {
	Name() string
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Replica is a persistent copy of the catalog written behind the memory
// index (Redis, SQLite). Writes to replicas are best effort.
type Replica interface {
	Name() string
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
	DeleteBookmark(ctx context.Context, id int64) error
}

// RenderCache drops rendered listings once the catalog changes.
type RenderCache interface {
	FlushRenders(ctx context.Context) (int, error)
}

// SnapshotLoader reads a stored catalog back.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

// MultiSource loads several sources and merges them into one snapshot, in
// order. A bookmark listed by more than one source carries every tag.
type MultiSource []Source

func (m MultiSource) Name() string {
	return strings.Join(m.Sources(), "+")
}

// Sources lists the provenance tags the merged snapshot can carry.
func (m MultiSource) Sources() []string {
	names := make([]string, 0, len(m))
	for _, s := range m {
		names = append(names, sourceNames(s)...)
	}
	return names
}

func (m MultiSource) Load(ctx context.Context) (*domain.Snapshot, error) {
	merged := &domain.Snapshot{}
	for _, s := range m {
		snap, err := s.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", s.Name(), err)
		}
		merged.Merge(snap)
	}
	return merged, nil
}

func sourceNames(s Source) []string {
	if m, ok := s.(interface{ Sources() []string }); ok {
		return m.Sources()
	}
	return []string{s.Name()}
}
