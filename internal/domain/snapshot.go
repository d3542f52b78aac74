package domain

// Snapshot is a complete catalog as produced by a source: categories and
// bookmarks, each in source order.
type Snapshot struct {
	Categories []*Category
	Bookmarks  []*Bookmark
}

// Category returns the category with the given id, if present.
func (s *Snapshot) Category(id int64) (*Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Merge adds other's records to s. Categories are matched by ID; a
// bookmark already present gains other's categories and sources.
func (s *Snapshot) Merge(other *Snapshot) {
	if other == nil {
		return
	}
	for _, c := range other.Categories {
		if _, ok := s.Category(c.ID); !ok {
			s.Categories = append(s.Categories, c)
		}
	}

	byID := make(map[int64]*Bookmark, len(s.Bookmarks))
	for _, b := range s.Bookmarks {
		byID[b.ID] = b
	}
	for _, b := range other.Bookmarks {
		existing, ok := byID[b.ID]
		if !ok {
			s.Bookmarks = append(s.Bookmarks, b)
			byID[b.ID] = b
			continue
		}
		for _, id := range b.CategoryIDs {
			if !existing.InCategory(id) {
				existing.CategoryIDs = append(existing.CategoryIDs, id)
			}
		}
		for _, src := range b.Sources {
			if !existing.HasSource(src) {
				existing.Sources = append(existing.Sources, src)
			}
		}
	}
}
