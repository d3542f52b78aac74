package domain

import (
	"strings"
	"unicode"
)

// DefaultCategoryName is the category assigned to links that come without one.
const DefaultCategoryName = "Blogroll"

// Category is a link category, the grouping key of categorized listings.
type Category struct {
	ID     int64
	Name   string
	Slug   string
	Parent int64 // 0 for top-level categories

	// Count is the number of live bookmarks in the category.
	// Filled in by the query layer.
	Count int `json:"-"`
}

// Clone returns a copy of the category.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// NewCategory builds a category whose identity is derived from its name.
func NewCategory(name string) *Category {
	name = strings.TrimSpace(name)
	return &Category{
		ID:   CategoryID(name),
		Name: name,
		Slug: Slugify(name),
	}
}

// CategoryID derives a stable identifier from a category name.
// Names are compared case-insensitively.
func CategoryID(name string) int64 {
	return hashID("category:" + strings.ToLower(strings.TrimSpace(name)))
}

// Slugify lowercases s and replaces every run of non-alphanumerics with a dash.
// Example: "Friends & Family" -> "friends-family"
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
