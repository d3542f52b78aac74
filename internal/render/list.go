package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

// ErrNoCatalog is returned by List when the Renderer has no Catalog.
var ErrNoCatalog = errors.New("render: no catalog configured")

const (
	listOpen  = "\n\t<ul class='xoxo blogroll'>\n"
	listClose = "\n\t</ul>\n"
)

// List renders the bookmark listing described by opts.
//
// With Categorize set, each non-empty category gets its own titled list;
// when no category matches at all the call falls back to a single list.
// Categories whose bookmark query comes back empty are skipped and never
// trigger that fallback.
//
// With Echo set, the result is written to the configured output and the
// returned string is empty. Only collaborator failures produce errors.
func (r *Renderer) List(ctx context.Context, opts ListOptions) (string, error) {
	if r.catalog == nil {
		return "", ErrNoCatalog
	}

	class := sanitizeHTMLClass(opts.Class)
	query := opts.BookmarkQuery(r.settings.RecentlyUpdatedWindow(), r.now())

	categorize := opts.Categorize
	var categories []*domain.Category
	if categorize {
		var err error
		categories, err = r.catalog.QueryCategories(ctx, opts.CategoryQuery())
		if err != nil {
			return "", fmt.Errorf("failed to query link categories: %w", err)
		}
		if len(categories) == 0 {
			r.logger.Debug("no link categories matched, rendering a single list",
				logger.String("category_name", opts.CategoryName))
			categorize = false
		}
	}

	var out strings.Builder
	if categorize {
		for _, cat := range categories {
			q := query
			q.Category = []int64{cat.ID}
			q.CategoryName = ""

			bookmarks, err := r.catalog.QueryBookmarks(ctx, q)
			if err != nil {
				return "", fmt.Errorf("failed to query bookmarks of category %d: %w", cat.ID, err)
			}
			if len(bookmarks) == 0 {
				r.logger.Debug("skipping empty link category",
					logger.Int64("category_id", cat.ID))
				continue
			}

			title := r.sanitizer.SanitizeField(FieldCategoryName, cat.Name, cat.ID, ContextDisplay)
			r.writeBlock(&out, opts, "linkcat-"+strconv.FormatInt(cat.ID, 10), class, title, bookmarks)
		}
	} else {
		bookmarks, err := r.catalog.QueryBookmarks(ctx, query)
		if err != nil {
			return "", fmt.Errorf("failed to query bookmarks: %w", err)
		}
		if len(bookmarks) > 0 {
			if opts.TitleLi != "" {
				r.writeBlock(&out, opts, "linkcat-"+html.EscapeString(opts.Category), class, opts.TitleLi, bookmarks)
			} else {
				out.WriteString(r.Walk(bookmarks, opts.Walk))
			}
		}
	}

	result := out.String()
	for _, filter := range r.filters {
		if filter != nil {
			result = filter(result)
		}
	}

	if !opts.Echo {
		return result, nil
	}
	if _, err := io.WriteString(r.out, result); err != nil {
		return "", fmt.Errorf("failed to write bookmark list: %w", err)
	}
	return "", nil
}

func (r *Renderer) writeBlock(out *strings.Builder, opts ListOptions, id, class, title string, bookmarks []*domain.Bookmark) {
	out.WriteString(strings.NewReplacer("%id", id, "%class", class).Replace(opts.CategoryBefore))
	out.WriteString(opts.TitleBefore)
	out.WriteString(title)
	out.WriteString(opts.TitleAfter)
	out.WriteString(listOpen)
	out.WriteString(r.Walk(bookmarks, opts.Walk))
	out.WriteString(listClose)
	out.WriteString(opts.CategoryAfter)
	out.WriteByte('\n')
}
