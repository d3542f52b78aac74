package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
	"github.com/MrSnakeDoc/linkroll/internal/index"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

// BookmarkReloader periodically reloads the bookmark source into the
// memory index and its replicas.
type BookmarkReloader struct {
	source        Source
	index         *index.MemoryIndex
	replicas      []Replica
	cache         RenderCache
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewBookmarkReloader(
	source Source,
	idx *index.MemoryIndex,
	replicas []Replica,
	cache RenderCache,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *BookmarkReloader {
	return &BookmarkReloader{
		source:        source,
		index:         idx,
		replicas:      replicas,
		cache:         cache,
		logger:        log.With(logger.String("source", source.Name())),
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start reloads once and then keeps reloading on every tick or manual
// trigger until Stop or ctx is done. Only the initial reload error is returned.
func (br *BookmarkReloader) Start(ctx context.Context) error {
	if err := br.Reload(ctx); err != nil {
		return fmt.Errorf("initial bookmark reload failed: %w", err)
	}

	ticker := time.NewTicker(br.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := br.Reload(ctx); err != nil {
					br.logger.Error("failed to reload bookmarks", logger.Error(err))
				}
			case <-br.manualTrigger:
				br.logger.Info("manual bookmark reload triggered")
				if err := br.Reload(ctx); err != nil {
					br.logger.Error("failed to reload bookmarks", logger.Error(err))
				}
			case <-br.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (br *BookmarkReloader) Stop() {
	close(br.stopCh)
}

// Reload loads the source and publishes it. Bookmarks of this source that
// disappeared are kept as disabled so the garbage collector can expire
// them, and bookmarks that are still listed keep their original CreatedAt.
// Bookmarks tagged with other sources survive untouched.
func (br *BookmarkReloader) Reload(ctx context.Context) error {
	br.logger.Info("reloading bookmarks")

	snap, err := br.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	br.logger.Info("loaded bookmarks",
		logger.Int("bookmarks", len(snap.Bookmarks)),
		logger.Int("categories", len(snap.Categories)))

	disabled := br.reconcile(snap)
	if disabled > 0 {
		br.logger.Info("marking removed bookmarks as disabled", logger.Int("count", disabled))
	}

	br.index.Replace(snap.Categories, snap.Bookmarks)

	for _, r := range br.replicas {
		if err := r.SaveSnapshot(ctx, snap); err != nil {
			// The memory index stays authoritative.
			br.logger.Warn("failed to save bookmarks to replica",
				logger.String("replica", r.Name()),
				logger.Error(err))
			continue
		}
		br.logger.Debug("bookmarks saved to replica", logger.String("replica", r.Name()))
	}

	if br.cache != nil {
		n, err := br.cache.FlushRenders(ctx)
		if err != nil {
			br.logger.Warn("failed to flush render cache", logger.Error(err))
		} else if n > 0 {
			br.logger.Debug("flushed render cache", logger.Int("entries", n))
		}
	}

	return nil
}

// reconcile folds the previous state of this source into snap and
// returns how many bookmarks were newly disabled.
func (br *BookmarkReloader) reconcile(snap *domain.Snapshot) int {
	now := br.now().UTC()

	owned := sourceNames(br.source)

	current := make(map[int64]*domain.Bookmark, len(snap.Bookmarks))
	for _, b := range snap.Bookmarks {
		current[b.ID] = b
	}

	disabled := 0
	for _, prev := range br.index.GetAllBookmarks() {
		if b, ok := current[prev.ID]; ok {
			if !prev.CreatedAt.IsZero() {
				b.CreatedAt = prev.CreatedAt
			}
			continue
		}

		gone := prev.Clone()
		if !ownedBy(prev, owned) {
			// Written by someone else (an import), carried over as is.
			snap.Bookmarks = append(snap.Bookmarks, gone)
			br.keepCategories(snap, gone)
			continue
		}

		if !gone.Disabled {
			gone.Disabled = true
			gone.DisabledAt = now
			disabled++
		}
		snap.Bookmarks = append(snap.Bookmarks, gone)
		br.keepCategories(snap, gone)
	}
	return disabled
}

// keepCategories copies the categories of a carried-over bookmark from the
// index into snap.
func (br *BookmarkReloader) keepCategories(snap *domain.Snapshot, b *domain.Bookmark) {
	for _, id := range b.CategoryIDs {
		if _, ok := snap.Category(id); ok {
			continue
		}
		if c, ok := br.index.GetCategory(id); ok {
			snap.Categories = append(snap.Categories, c.Clone())
		}
	}
}

func ownedBy(b *domain.Bookmark, names []string) bool {
	for _, n := range names {
		if b.HasSource(n) {
			return true
		}
	}
	return false
}
