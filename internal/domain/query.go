package domain

import (
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Sort directions.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Bookmark sort keys accepted by BookmarkQuery.OrderBy.
const (
	OrderByName        = "name"
	OrderByID          = "id"
	OrderByURL         = "url"
	OrderByRating      = "rating"
	OrderByUpdated     = "updated"
	OrderByRand        = "rand"
	OrderByLength      = "length"
	OrderByOwner       = "owner"
	OrderByNotes       = "notes"
	OrderByDescription = "description"
	OrderByVisible     = "visible"
	OrderByTarget      = "target"
	OrderByRel         = "rel"
)

// Category sort keys accepted by CategoryQuery.OrderBy.
const (
	CategoryOrderByName  = "name"
	CategoryOrderByID    = "id"
	CategoryOrderBySlug  = "slug"
	CategoryOrderByCount = "count"
	CategoryOrderByNone  = "none"
)

var bookmarkOrderKeys = map[string]bool{
	OrderByName: true, OrderByID: true, OrderByURL: true, OrderByRating: true,
	OrderByUpdated: true, OrderByRand: true, OrderByLength: true, OrderByOwner: true,
	OrderByNotes: true, OrderByDescription: true, OrderByVisible: true,
	OrderByTarget: true, OrderByRel: true,
}

// BookmarkQuery selects and orders bookmarks.
type BookmarkQuery struct {
	OrderBy       string // comma separated sort keys, "link_" prefix allowed
	Order         string // ASC or DESC
	Limit         int    // <= 0 means unlimited
	Category      []int64
	CategoryName  string // exact category name; unknown name yields nothing
	HideInvisible bool
	ShowUpdated   bool
	Include       []int64 // when set, Exclude, Category and CategoryName are ignored
	Exclude       []int64
	Search        string

	// RecentlyUpdatedWindow and Now drive Bookmark.RecentlyUpdated
	// when ShowUpdated is set.
	RecentlyUpdatedWindow time.Duration
	Now                   time.Time
}

// CategoryQuery selects and orders link categories.
type CategoryQuery struct {
	NameLike     string
	Include      []int64
	Exclude      []int64
	OrderBy      string
	Order        string
	HideEmpty    bool
	Hierarchical bool
}

// OrderKeys returns the normalized, de-duplicated sort keys of the query.
// Unknown keys are dropped; an empty result falls back to name.
func (q BookmarkQuery) OrderKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(q.OrderBy, ",") {
		k := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "link_")
		if !bookmarkOrderKeys[k] || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return []string{OrderByName}
	}
	return keys
}

// Descending reports whether the query asks for a descending sort.
func (q BookmarkQuery) Descending() bool {
	return strings.EqualFold(strings.TrimSpace(q.Order), OrderDesc)
}

// OrderKey returns the normalized category sort key.
func (q CategoryQuery) OrderKey() string {
	switch k := strings.ToLower(strings.TrimSpace(q.OrderBy)); k {
	case CategoryOrderByID, CategoryOrderBySlug, CategoryOrderByCount, CategoryOrderByNone:
		return k
	case "term_id":
		return CategoryOrderByID
	default:
		return CategoryOrderByName
	}
}

// Descending reports whether the query asks for a descending sort.
func (q CategoryQuery) Descending() bool {
	return strings.EqualFold(strings.TrimSpace(q.Order), OrderDesc)
}

// SelectBookmarks evaluates q against an in-memory set of bookmarks.
// categories resolves CategoryName. The returned bookmarks are copies.
func SelectBookmarks(all []*Bookmark, categories []*Category, q BookmarkQuery) []*Bookmark {
	include := idSet(q.Include)
	exclude := idSet(q.Exclude)
	inCategory := idSet(q.Category)

	if len(include) == 0 && q.CategoryName != "" {
		cat := findCategoryByName(categories, q.CategoryName)
		if cat == nil {
			return []*Bookmark{}
		}
		inCategory = map[int64]bool{cat.ID: true}
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]*Bookmark, 0, len(all))
	for _, b := range all {
		if b == nil || b.Disabled {
			continue
		}
		if q.HideInvisible && !b.Visible {
			continue
		}
		if len(include) > 0 {
			if !include[b.ID] {
				continue
			}
		} else {
			if exclude[b.ID] {
				continue
			}
			if len(inCategory) > 0 && !anyIn(b.CategoryIDs, inCategory) {
				continue
			}
		}
		if search != "" && !matchesSearch(b, search) {
			continue
		}

		c := b.Clone()
		c.RecentlyUpdated = q.ShowUpdated && c.IsRecentlyUpdated(q.RecentlyUpdatedWindow, q.Now)
		out = append(out, c)
	}

	sortBookmarks(out, q.OrderKeys(), q.Descending())

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// SelectCategories evaluates q against an in-memory set of categories.
// bookmarks are used to compute Category.Count. The returned categories are copies.
func SelectCategories(all []*Category, bookmarks []*Bookmark, q CategoryQuery) []*Category {
	counts := make(map[int64]int, len(all))
	for _, b := range bookmarks {
		if b == nil || b.Disabled {
			continue
		}
		for _, id := range b.CategoryIDs {
			counts[id]++
		}
	}

	include := idSet(q.Include)
	exclude := idSet(q.Exclude)
	like := strings.ToLower(strings.TrimSpace(q.NameLike))

	out := make([]*Category, 0, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		if len(include) > 0 && !include[c.ID] {
			continue
		}
		if exclude[c.ID] {
			continue
		}
		if like != "" && !strings.Contains(strings.ToLower(c.Name), like) {
			continue
		}
		cp := c.Clone()
		cp.Count = counts[c.ID]
		if q.HideEmpty && cp.Count == 0 {
			continue
		}
		out = append(out, cp)
	}

	key := q.OrderKey()
	if key == CategoryOrderByNone {
		return out
	}
	desc := q.Descending()
	sort.SliceStable(out, func(i, j int) bool {
		c := compareCategories(out[i], out[j], key)
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareCategories(a, b *Category, key string) int {
	switch key {
	case CategoryOrderByID:
		return compareInt64(a.ID, b.ID)
	case CategoryOrderBySlug:
		return strings.Compare(a.Slug, b.Slug)
	case CategoryOrderByCount:
		return compareInt64(int64(a.Count), int64(b.Count))
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

func sortBookmarks(list []*Bookmark, keys []string, desc bool) {
	if len(keys) == 1 && keys[0] == OrderByRand {
		rand.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		for _, k := range keys {
			c := compareBookmarks(list[i], list[j], k)
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}

func compareBookmarks(a, b *Bookmark, key string) int {
	switch key {
	case OrderByID:
		return compareInt64(a.ID, b.ID)
	case OrderByURL:
		return strings.Compare(a.URL, b.URL)
	case OrderByRating:
		return compareInt64(int64(a.Rating), int64(b.Rating))
	case OrderByUpdated:
		return a.Updated.Compare(b.Updated)
	case OrderByLength:
		return compareInt64(int64(utf8.RuneCountInString(a.Name)), int64(utf8.RuneCountInString(b.Name)))
	case OrderByOwner:
		return compareInt64(a.Owner, b.Owner)
	case OrderByNotes:
		return strings.Compare(a.Notes, b.Notes)
	case OrderByDescription:
		return strings.Compare(a.Description, b.Description)
	case OrderByVisible:
		return compareBool(a.Visible, b.Visible)
	case OrderByTarget:
		return strings.Compare(a.Target, b.Target)
	case OrderByRel:
		return strings.Compare(a.Rel, b.Rel)
	case OrderByRand:
		// rand mixed with other keys contributes nothing
		return 0
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

func matchesSearch(b *Bookmark, term string) bool {
	return strings.Contains(strings.ToLower(b.URL), term) ||
		strings.Contains(strings.ToLower(b.Name), term) ||
		strings.Contains(strings.ToLower(b.Description), term)
}

func findCategoryByName(categories []*Category, name string) *Category {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if c != nil && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func anyIn(ids []int64, set map[int64]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
