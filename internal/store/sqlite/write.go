package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// UpsertCategories inserts or updates categories in one transaction.
func (s *Store) UpsertCategories(ctx context.Context, categories []*domain.Category) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO link_categories (id, name, slug, parent) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug, parent = excluded.parent
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range categories {
			if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Slug, c.Parent); err != nil {
				return fmt.Errorf("category %d: %w", c.ID, err)
			}
		}
		return nil
	})
}

// UpsertBookmarks inserts or updates bookmarks and replaces their category
// links. Categories must exist already.
func (s *Store) UpsertBookmarks(ctx context.Context, bookmarks []*domain.Bookmark) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		upsert, err := tx.PrepareContext(ctx, `
			INSERT INTO links (id, url, name, image, target, description, visible, owner, rating,
				updated, rel, notes, rss, sources, created_at, disabled, disabled_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				url = excluded.url, name = excluded.name, image = excluded.image,
				target = excluded.target, description = excluded.description,
				visible = excluded.visible, owner = excluded.owner, rating = excluded.rating,
				updated = excluded.updated, rel = excluded.rel, notes = excluded.notes,
				rss = excluded.rss, sources = excluded.sources, created_at = excluded.created_at,
				disabled = excluded.disabled, disabled_at = excluded.disabled_at
		`)
		if err != nil {
			return err
		}
		defer upsert.Close()

		unlink, err := tx.PrepareContext(ctx, `DELETE FROM link_relationships WHERE link_id = ?`)
		if err != nil {
			return err
		}
		defer unlink.Close()

		link, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO link_relationships (link_id, category_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer link.Close()

		for _, b := range bookmarks {
			sources := b.Sources
			if sources == nil {
				sources = []string{}
			}
			sourcesJSON, err := json.Marshal(sources)
			if err != nil {
				return fmt.Errorf("bookmark %d: failed to marshal sources: %w", b.ID, err)
			}

			if _, err := upsert.ExecContext(ctx,
				b.ID, b.URL, b.Name, b.Image, b.Target, b.Description, boolInt(b.Visible),
				b.Owner, b.Rating, toNanos(b.Updated), b.Rel, b.Notes, b.RSS, string(sourcesJSON),
				toNanos(b.CreatedAt), boolInt(b.Disabled), toNanos(b.DisabledAt),
			); err != nil {
				return fmt.Errorf("bookmark %d: %w", b.ID, err)
			}

			if _, err := unlink.ExecContext(ctx, b.ID); err != nil {
				return fmt.Errorf("bookmark %d: %w", b.ID, err)
			}
			for _, cid := range b.CategoryIDs {
				if _, err := link.ExecContext(ctx, b.ID, cid); err != nil {
					return fmt.Errorf("bookmark %d category %d: %w", b.ID, cid, err)
				}
			}
		}
		return nil
	})
}

// DeleteBookmark removes a bookmark and its category links.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, err)
	}
	return nil
}

// DeleteCategory removes a category; bookmarks lose the link but stay.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM link_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Name identifies the store in logs and status reports.
func (s *Store) Name() string { return "sqlite" }

// SaveSnapshot upserts snap's categories, then its bookmarks.
func (s *Store) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if err := s.UpsertCategories(ctx, snap.Categories); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	if err := s.UpsertBookmarks(ctx, snap.Bookmarks); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}
