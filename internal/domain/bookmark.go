package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Bookmark represents an external link listed in the links directory.
// Records are immutable inputs to rendering; query layers hand out copies.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	// Sources derive it from the URL (see BookmarkID).
	ID int64

	// URL is the link target. Empty renders as "#".
	URL string

	// Name is the display name of the link.
	Name string

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	// Image is an optional image reference, absolute ("http...") or
	// relative to the site URL. Empty means no image.
	Image string

	// Target is the anchor target attribute, e.g. "_blank".
	Target string

	// Description is a short text shown next to or as title of the link.
	Description string

	// Visible is false for links hidden from public listings.
	Visible bool

	// Owner is the id of the user owning the link.
	Owner int64

	// Rating is a 0-10 score.
	Rating int

	// Updated is the last time the linked resource changed.
	// The zero value means "never recorded".
	Updated time.Time

	// Rel is the relationship attribute (XFN values and friends).
	Rel string

	// Notes are free-form notes, never rendered.
	Notes string

	// RSS is the feed URL of the linked site.
	RSS string

	// CategoryIDs lists the link categories the bookmark belongs to.
	CategoryIDs []int64

	// RecentlyUpdated is computed by the query layer when updates are
	// requested. It is never persisted.
	RecentlyUpdated bool `json:"-"`

	// ─────────────────────────────
	// Provenance & liveness
	// ─────────────────────────────

	// Sources indicates where this bookmark was discovered from.
	// Example: homepage, netscape
	Sources []string

	// CreatedAt is the first time the bookmark was stored.
	CreatedAt time.Time

	// Disabled marks a bookmark as soft-deleted.
	// It is never returned by queries and may be garbage-collected later.
	Disabled bool

	// DisabledAt records when Disabled was set.
	DisabledAt time.Time
}

// Clone returns a deep copy of the bookmark.
func (b *Bookmark) Clone() *Bookmark {
	if b == nil {
		return nil
	}
	c := *b
	if b.CategoryIDs != nil {
		c.CategoryIDs = append([]int64(nil), b.CategoryIDs...)
	}
	if b.Sources != nil {
		c.Sources = append([]string(nil), b.Sources...)
	}
	return &c
}

// InCategory reports whether the bookmark is assigned to category id.
func (b *Bookmark) InCategory(id int64) bool {
	for _, c := range b.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// HasSource reports whether the bookmark was discovered from source.
func (b *Bookmark) HasSource(source string) bool {
	for _, s := range b.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// IsRecentlyUpdated reports whether Updated falls within window of now.
func (b *Bookmark) IsRecentlyUpdated(window time.Duration, now time.Time) bool {
	if b.Updated.IsZero() {
		return false
	}
	return !b.Updated.Add(window).Before(now)
}

// BookmarkID derives a stable identifier from a URL, so that the same URL
// always maps to the same record across reloads and sources.
func BookmarkID(url string) int64 {
	return hashID(url)
}

// hashID keeps the first 48 bits of a SHA-256 digest, small enough to stay
// exact in JSON consumers.
func hashID(s string) int64 {
	sum := sha256.Sum256([]byte(s))
	var buf [8]byte
	copy(buf[2:], sum[:6])
	return int64(binary.BigEndian.Uint64(buf[:]))
}
