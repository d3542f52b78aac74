package render

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// Catalog answers the bookmark and category queries the list renderer needs.
// Implemented by the memory index and the SQLite store.
type Catalog interface {
	QueryCategories(ctx context.Context, q domain.CategoryQuery) ([]*domain.Category, error)
	QueryBookmarks(ctx context.Context, q domain.BookmarkQuery) ([]*domain.Bookmark, error)
}

// Sanitizer cleans a single record field for the given output context.
type Sanitizer interface {
	SanitizeField(field, value string, id int64, ctx Context) string
}

// SiteSettings exposes the site-wide options rendering depends on.
type SiteSettings interface {
	// SiteURL prefixes relative image references.
	SiteURL() string
	// LinksUpdatedDateFormat is a strftime layout for "Last updated" dates.
	LinksUpdatedDateFormat() string
	// GMTOffset is the site's offset from UTC in hours.
	GMTOffset() float64
	// RecentlyUpdatedWindow is how long a link counts as recently updated.
	RecentlyUpdatedWindow() time.Duration
}

// Filter transforms the fully assembled list before it is returned or written.
type Filter func(html string) string

// DefaultDateFormat renders like "October 18, 2026 3:04 pm".
const DefaultDateFormat = "%B %-d, %Y %-I:%M %P"

// DefaultRecentlyUpdatedWindow is how long an edited link stays "recently updated".
const DefaultRecentlyUpdatedWindow = 120 * time.Minute

// Settings is a static SiteSettings.
type Settings struct {
	BaseURL         string
	DateFormat      string
	Offset          float64
	RecentlyUpdated time.Duration
}

func (s Settings) SiteURL() string { return s.BaseURL }

func (s Settings) LinksUpdatedDateFormat() string {
	if s.DateFormat == "" {
		return DefaultDateFormat
	}
	return s.DateFormat
}

func (s Settings) GMTOffset() float64 { return s.Offset }

func (s Settings) RecentlyUpdatedWindow() time.Duration {
	if s.RecentlyUpdated <= 0 {
		return DefaultRecentlyUpdatedWindow
	}
	return s.RecentlyUpdated
}
