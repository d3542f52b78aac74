package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

const linkColumns = `l.id, l.url, l.name, l.image, l.target, l.description, l.visible, l.owner,
	l.rating, l.updated, l.rel, l.notes, l.rss, l.sources, l.created_at, l.disabled, l.disabled_at`

var bookmarkOrderColumns = map[string]string{
	domain.OrderByName:        "LOWER(l.name)",
	domain.OrderByID:          "l.id",
	domain.OrderByURL:         "l.url",
	domain.OrderByRating:      "l.rating",
	domain.OrderByUpdated:     "l.updated",
	domain.OrderByLength:      "LENGTH(l.name)",
	domain.OrderByOwner:       "l.owner",
	domain.OrderByNotes:       "l.notes",
	domain.OrderByDescription: "l.description",
	domain.OrderByVisible:     "l.visible",
	domain.OrderByTarget:      "l.target",
	domain.OrderByRel:         "l.rel",
}

var categoryOrderColumns = map[string]string{
	domain.CategoryOrderByName:  "LOWER(name)",
	domain.CategoryOrderByID:    "id",
	domain.CategoryOrderBySlug:  "slug",
	domain.CategoryOrderByCount: "link_count",
}

// QueryBookmarks evaluates q in SQL with the same semantics as
// domain.SelectBookmarks.
func (s *Store) QueryBookmarks(ctx context.Context, q domain.BookmarkQuery) ([]*domain.Bookmark, error) {
	where := []string{"l.disabled = 0"}
	var args []any

	if q.HideInvisible {
		where = append(where, "l.visible = 1")
	}

	if len(q.Include) > 0 {
		where = append(where, "l.id IN ("+placeholders(len(q.Include))+")")
		args = appendIDs(args, q.Include)
	} else {
		if len(q.Exclude) > 0 {
			where = append(where, "l.id NOT IN ("+placeholders(len(q.Exclude))+")")
			args = appendIDs(args, q.Exclude)
		}

		categories := q.Category
		if name := strings.TrimSpace(q.CategoryName); name != "" {
			var id int64
			err := s.db.QueryRowContext(ctx,
				`SELECT id FROM link_categories WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1`, name,
			).Scan(&id)
			if errors.Is(err, sql.ErrNoRows) {
				return []*domain.Bookmark{}, nil
			}
			if err != nil {
				return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
			}
			categories = []int64{id}
		}
		if len(categories) > 0 {
			where = append(where, "EXISTS (SELECT 1 FROM link_relationships r WHERE r.link_id = l.id AND r.category_id IN ("+
				placeholders(len(categories))+"))")
			args = appendIDs(args, categories)
		}
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		where = append(where, `(LOWER(l.url) LIKE ? ESCAPE '\' OR LOWER(l.name) LIKE ? ESCAPE '\' OR LOWER(l.description) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}

	query := "SELECT " + linkColumns + " FROM links l WHERE " + strings.Join(where, " AND ") +
		" ORDER BY " + bookmarkOrder(q)
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	bookmarks, err := s.scanBookmarks(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for _, b := range bookmarks {
		b.RecentlyUpdated = q.ShowUpdated && b.IsRecentlyUpdated(q.RecentlyUpdatedWindow, q.Now)
	}
	return bookmarks, nil
}

func bookmarkOrder(q domain.BookmarkQuery) string {
	keys := q.OrderKeys()
	if len(keys) == 1 && keys[0] == domain.OrderByRand {
		return "RANDOM()"
	}

	dir := " ASC"
	if q.Descending() {
		dir = " DESC"
	}
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if col, ok := bookmarkOrderColumns[k]; ok {
			parts = append(parts, col+dir)
		}
	}
	return strings.Join(append(parts, "l.id ASC"), ", ")
}

// QueryCategories evaluates q in SQL with the same semantics as
// domain.SelectCategories. Count excludes disabled bookmarks.
func (s *Store) QueryCategories(ctx context.Context, q domain.CategoryQuery) ([]*domain.Category, error) {
	var where []string
	var args []any

	if len(q.Include) > 0 {
		where = append(where, "id IN ("+placeholders(len(q.Include))+")")
		args = appendIDs(args, q.Include)
	}
	if len(q.Exclude) > 0 {
		where = append(where, "id NOT IN ("+placeholders(len(q.Exclude))+")")
		args = appendIDs(args, q.Exclude)
	}
	if like := strings.ToLower(strings.TrimSpace(q.NameLike)); like != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(like)+"%")
	}
	if q.HideEmpty {
		where = append(where, "link_count > 0")
	}

	query := `
		SELECT id, name, slug, parent, link_count FROM (
			SELECT c.id, c.name, c.slug, c.parent,
				(SELECT COUNT(*) FROM link_relationships r JOIN links l ON l.id = r.link_id
				 WHERE r.category_id = c.id AND l.disabled = 0) AS link_count
			FROM link_categories c
		)`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	order := "id ASC"
	if col, ok := categoryOrderColumns[q.OrderKey()]; ok {
		dir := " ASC"
		if q.Descending() {
			dir = " DESC"
		}
		order = col + dir + ", id ASC"
	}
	query += " ORDER BY " + order

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Parent, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetAllBookmarks returns every stored bookmark, disabled ones included.
func (s *Store) GetAllBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	return s.scanBookmarks(ctx, "SELECT "+linkColumns+" FROM links l ORDER BY l.id")
}

// GetAllCategories returns every stored category ordered by ID.
func (s *Store) GetAllCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.QueryCategories(ctx, domain.CategoryQuery{OrderBy: domain.CategoryOrderByID})
}

func (s *Store) scanBookmarks(ctx context.Context, query string, args ...any) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []*domain.Bookmark{}
	byID := make(map[int64]*domain.Bookmark)
	for rows.Next() {
		var (
			b                              domain.Bookmark
			visible, disabled              int
			updated, createdAt, disabledAt int64
			sourcesJSON                    string
		)
		if err := rows.Scan(&b.ID, &b.URL, &b.Name, &b.Image, &b.Target, &b.Description, &visible,
			&b.Owner, &b.Rating, &updated, &b.Rel, &b.Notes, &b.RSS, &sourcesJSON,
			&createdAt, &disabled, &disabledAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.Visible = visible == 1
		b.Disabled = disabled == 1
		b.Updated = fromNanos(updated)
		b.CreatedAt = fromNanos(createdAt)
		b.DisabledAt = fromNanos(disabledAt)
		if err := json.Unmarshal([]byte(sourcesJSON), &b.Sources); err != nil {
			return nil, fmt.Errorf("bookmark %d: failed to unmarshal sources: %w", b.ID, err)
		}
		if len(b.Sources) == 0 {
			b.Sources = nil
		}

		bookmarks = append(bookmarks, &b)
		byID[b.ID] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(bookmarks) == 0 {
		return bookmarks, nil
	}
	if err := s.attachCategories(ctx, byID); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (s *Store) attachCategories(ctx context.Context, byID map[int64]*domain.Bookmark) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT link_id, category_id FROM link_relationships WHERE link_id IN ("+placeholders(len(ids))+") ORDER BY link_id, category_id",
		appendIDs(nil, ids)...)
	if err != nil {
		return fmt.Errorf("failed to load bookmark categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var linkID, categoryID int64
		if err := rows.Scan(&linkID, &categoryID); err != nil {
			return fmt.Errorf("failed to scan bookmark category: %w", err)
		}
		if b := byID[linkID]; b != nil {
			b.CategoryIDs = append(b.CategoryIDs, categoryID)
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func appendIDs(args []any, ids []int64) []any {
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// LoadSnapshot returns every stored category and bookmark.
func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	categories, err := s.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.GetAllBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{Categories: categories, Bookmarks: bookmarks}, nil
}
