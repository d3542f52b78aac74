package homepage

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// SourceName tags bookmarks discovered from bookmarks.yaml.
const SourceName = "homepage"

// ErrNoBookmarks is returned when a config holds no usable bookmark.
var ErrNoBookmarks = errors.New("no valid bookmarks found in config")

var updatedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Mapper turns a BookmarksConfig into domain records.
type Mapper struct {
	now func() time.Time
}

func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Map converts config. Groups become categories, bookmarks are keyed by
// href: a link listed in several groups becomes one bookmark in several
// categories. Entries without href are skipped.
func (m *Mapper) Map(config BookmarksConfig) (*domain.Snapshot, error) {
	now := m.now().UTC()
	out := &domain.Snapshot{}

	categories := make(map[int64]*domain.Category)
	bookmarks := make(map[int64]*domain.Bookmark)

	for _, group := range config {
		for _, groupName := range sortedKeys(group) {
			if strings.TrimSpace(groupName) == "" {
				continue
			}
			cat := domain.NewCategory(groupName)
			if _, ok := categories[cat.ID]; !ok {
				categories[cat.ID] = cat
				out.Categories = append(out.Categories, cat)
			}

			for _, item := range group[groupName] {
				for _, name := range sortedKeys(item) {
					entries := item[name]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						continue
					}

					id := domain.BookmarkID(href)
					if existing, ok := bookmarks[id]; ok {
						if !existing.InCategory(cat.ID) {
							existing.CategoryIDs = append(existing.CategoryIDs, cat.ID)
						}
						continue
					}

					b := mapEntry(name, entry, now)
					b.ID = id
					b.URL = href
					b.CategoryIDs = []int64{cat.ID}
					bookmarks[id] = b
					out.Bookmarks = append(out.Bookmarks, b)
				}
			}
		}
	}

	if len(out.Bookmarks) == 0 {
		return nil, ErrNoBookmarks
	}
	return out, nil
}

func mapEntry(name string, e BookmarkEntry, now time.Time) *domain.Bookmark {
	name = strings.TrimSpace(name)
	if name == "" {
		name = e.Abbr
	}

	visible := true
	if e.Visible != nil {
		visible = *e.Visible
	}

	return &domain.Bookmark{
		Name:        name,
		Image:       e.Icon,
		Target:      e.Target,
		Description: e.Description,
		Visible:     visible,
		Rating:      min(max(e.Rating, 0), 10),
		Updated:     parseUpdated(e.Updated),
		Rel:         e.Rel,
		Notes:       e.Notes,
		RSS:         e.RSS,
		Sources:     []string{SourceName},
		CreatedAt:   now,
	}
}

// parseUpdated accepts RFC 3339 and a few date-time shorthands, read as
// UTC. Anything else counts as never updated.
func parseUpdated(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range updatedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
