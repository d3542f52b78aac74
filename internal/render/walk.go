package render

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// Walk formats bookmarks in input order, one fragment per record, each
// terminated by a newline. It never fails: missing data degrades to
// defaults ("#" for an empty URL, no image tag without an image).
func (r *Renderer) Walk(bookmarks []*domain.Bookmark, opts WalkOptions) string {
	var b strings.Builder
	for _, bm := range bookmarks {
		if bm == nil {
			continue
		}
		r.writeBookmark(&b, bm, opts)
	}
	return b.String()
}

func (r *Renderer) writeBookmark(b *strings.Builder, bm *domain.Bookmark, opts WalkOptions) {
	emphasize := opts.ShowUpdated && bm.RecentlyUpdated

	b.WriteString(opts.Before)
	if emphasize {
		b.WriteString("<em>")
	}

	href := escapeURL(bm.URL)
	if href == "" {
		href = "#"
	}

	desc := r.sanitizer.SanitizeField(FieldDescription, bm.Description, bm.ID, ContextDisplay)
	name := r.sanitizer.SanitizeField(FieldName, bm.Name, bm.ID, ContextDisplay)

	title := desc
	if opts.ShowUpdated && !bm.Updated.IsZero() {
		updated := "Last updated: " + html.EscapeString(r.formatUpdated(bm.Updated))
		if title == "" {
			title = updated
		} else {
			title += " (" + updated + ")"
		}
	}

	alt := name
	if opts.ShowDescription && title != "" {
		alt += " " + title
	}

	rel := r.sanitizer.SanitizeField(FieldRel, bm.Rel, bm.ID, ContextAttribute)
	target := r.sanitizer.SanitizeField(FieldTarget, bm.Target, bm.ID, ContextAttribute)

	b.WriteString(`<a href="`)
	b.WriteString(href)
	b.WriteByte('"')
	writeAttr(b, "rel", rel)
	writeAttr(b, "title", title)
	writeAttr(b, "target", target)
	b.WriteByte('>')

	b.WriteString(opts.LinkBefore)
	if bm.Image != "" && opts.ShowImages {
		b.WriteString(`<img src="`)
		b.WriteString(r.imageSource(bm.Image))
		b.WriteString(`" alt="`)
		b.WriteString(alt)
		b.WriteByte('"')
		writeAttr(b, "title", title)
		b.WriteString(" />")
		if opts.ShowName {
			b.WriteByte(' ')
			b.WriteString(name)
		}
	} else {
		b.WriteString(name)
	}
	b.WriteString(opts.LinkAfter)
	b.WriteString("</a>")

	if emphasize {
		b.WriteString("</em>")
	}

	if opts.ShowDescription && desc != "" {
		b.WriteString(opts.Between)
		b.WriteString(desc)
	}

	if opts.ShowRating {
		b.WriteString(opts.Between)
		b.WriteString(r.sanitizer.SanitizeField(FieldRating, strconv.Itoa(bm.Rating), bm.ID, ContextDisplay))
	}

	b.WriteString(opts.After)
	b.WriteByte('\n')
}

// imageSource keeps absolute references and prefixes relative ones with
// the site URL.
func (r *Renderer) imageSource(image string) string {
	if strings.HasPrefix(image, "http") {
		return escapeAttr(image)
	}
	return escapeAttr(r.settings.SiteURL() + image)
}

// formatUpdated shifts t from UTC by the site's GMT offset and formats it
// with the links-updated date format.
func (r *Renderer) formatUpdated(t time.Time) string {
	offset := time.Duration(r.settings.GMTOffset() * float64(time.Hour))
	return strftime.Format(r.settings.LinksUpdatedDateFormat(), t.UTC().Add(offset))
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}
