package index

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// MemoryIndex holds the bookmark catalog in memory and answers render
// queries from it. It is the primary catalog; Redis and SQLite are
// write-behind copies.
type MemoryIndex struct {
	mu         sync.RWMutex
	bookmarks  map[int64]*domain.Bookmark
	categories map[int64]*domain.Category
	lastReload time.Time
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		bookmarks:  make(map[int64]*domain.Bookmark),
		categories: make(map[int64]*domain.Category),
	}
}

// Replace swaps the whole catalog in one step so readers never see
// bookmarks whose categories are missing.
func (idx *MemoryIndex) Replace(categories []*domain.Category, bookmarks []*domain.Bookmark) {
	cats := make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		if c != nil {
			cats[c.ID] = c
		}
	}
	bms := make(map[int64]*domain.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		if b != nil {
			bms[b.ID] = b
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.categories = cats
	idx.bookmarks = bms
	idx.lastReload = time.Now()
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

// UpdateBookmarks replaces all bookmarks, keeping categories.
func (idx *MemoryIndex) UpdateBookmarks(bookmarks []*domain.Bookmark) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.bookmarks = make(map[int64]*domain.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		if b != nil {
			idx.bookmarks[b.ID] = b
		}
	}
	idx.lastReload = time.Now()
}

func (idx *MemoryIndex) GetBookmark(id int64) (*domain.Bookmark, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	b, ok := idx.bookmarks[id]
	return b, ok
}

// GetAllBookmarks returns every bookmark, disabled ones included, ordered by ID.
func (idx *MemoryIndex) GetAllBookmarks() []*domain.Bookmark {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.sortedBookmarks()
}

func (idx *MemoryIndex) AddBookmark(b *domain.Bookmark) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.bookmarks[b.ID] = b
}

func (idx *MemoryIndex) DeleteBookmark(id int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.bookmarks, id)
}

func (idx *MemoryIndex) BookmarkCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.bookmarks)
}

// ─────────────────────────────────────────────────────────────────
// Categories
// ─────────────────────────────────────────────────────────────────

func (idx *MemoryIndex) UpdateCategories(categories []*domain.Category) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.categories = make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		if c != nil {
			idx.categories[c.ID] = c
		}
	}
}

func (idx *MemoryIndex) GetCategory(id int64) (*domain.Category, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	c, ok := idx.categories[id]
	return c, ok
}

// GetAllCategories returns every category ordered by ID.
func (idx *MemoryIndex) GetAllCategories() []*domain.Category {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.sortedCategories()
}

func (idx *MemoryIndex) CategoryCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.categories)
}

// GetLastReload returns when the bookmarks were last replaced.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Catalog queries
// ─────────────────────────────────────────────────────────────────

func (idx *MemoryIndex) QueryBookmarks(ctx context.Context, q domain.BookmarkQuery) ([]*domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.SelectBookmarks(idx.sortedBookmarks(), idx.sortedCategories(), q), nil
}

func (idx *MemoryIndex) QueryCategories(ctx context.Context, q domain.CategoryQuery) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.SelectCategories(idx.sortedCategories(), idx.sortedBookmarks(), q), nil
}

// callers hold mu
func (idx *MemoryIndex) sortedBookmarks() []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(idx.bookmarks))
	for _, b := range idx.bookmarks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// callers hold mu
func (idx *MemoryIndex) sortedCategories() []*domain.Category {
	out := make([]*domain.Category, 0, len(idx.categories))
	for _, c := range idx.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
