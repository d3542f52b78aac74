package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/index"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

// DefaultGCThreshold is how long a bookmark stays disabled before it is deleted.
const DefaultGCThreshold = 30 * 24 * time.Hour

// GarbageCollector deletes bookmarks that have been disabled for longer
// than the threshold.
type GarbageCollector struct {
	index     *index.MemoryIndex
	replicas  []Replica
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

func NewGarbageCollector(
	idx *index.MemoryIndex,
	replicas []Replica,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold <= 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		index:     idx,
		replicas:  replicas,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start collects once and then on every tick until Stop or ctx is done.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed", logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed", logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect deletes expired bookmarks from the index and, best effort, from
// every replica. It returns how many bookmarks were deleted.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	gc.logger.Debug("running garbage collection for disabled bookmarks")

	now := gc.now()
	deleted := 0

	for _, b := range gc.index.GetAllBookmarks() {
		if !b.Disabled || b.DisabledAt.IsZero() {
			continue
		}
		disabledFor := now.Sub(b.DisabledAt)
		if disabledFor < gc.threshold {
			continue
		}

		gc.index.DeleteBookmark(b.ID)

		for _, r := range gc.replicas {
			if err := r.DeleteBookmark(ctx, b.ID); err != nil {
				gc.logger.Warn("failed to delete bookmark from replica",
					logger.String("replica", r.Name()),
					logger.Int64("bookmark_id", b.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled bookmark",
			logger.Int64("bookmark_id", b.ID),
			logger.String("url", b.URL),
			logger.Duration("disabled_for", disabledFor))
		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("bookmarks_deleted", deleted))
	} else {
		gc.logger.Debug("no bookmarks to garbage collect")
	}
	return deleted, nil
}
