package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linkroll/internal/index"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

// Syncer warms the memory index from a stored snapshot (Redis, SQLite) at
// startup, so listings are served before the first reload completes and
// removed bookmarks are detected across restarts.
type Syncer struct {
	name   string
	store  SnapshotLoader
	index  *index.MemoryIndex
	logger logger.Logger
}

func NewSyncer(name string, store SnapshotLoader, idx *index.MemoryIndex, log logger.Logger) *Syncer {
	return &Syncer{
		name:   name,
		store:  store,
		index:  idx,
		logger: log.With(logger.String("store", name)),
	}
}

// Sync loads the stored snapshot into the index. An empty snapshot leaves
// the index untouched.
func (rs *Syncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing bookmarks to memory")

	snap, err := rs.store.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot from %s: %w", rs.name, err)
	}

	if len(snap.Bookmarks) == 0 {
		rs.logger.Info("no stored bookmarks found")
		return nil
	}

	rs.index.Replace(snap.Categories, snap.Bookmarks)

	rs.logger.Info("synced stored bookmarks",
		logger.Int("bookmarks", len(snap.Bookmarks)),
		logger.Int("categories", len(snap.Categories)))
	return nil
}
