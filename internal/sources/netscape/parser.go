// Package netscape imports the Netscape bookmark file format that browsers
// export ("bookmarks.html").
package netscape

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// SourceName tags bookmarks imported from a bookmark file.
const SourceName = "netscape"

// Options tunes an import.
type Options struct {
	// DefaultCategory receives bookmarks found outside any folder.
	// Defaults to domain.DefaultCategoryName.
	DefaultCategory string
	// Now stamps bookmarks without ADD_DATE. Defaults to time.Now.
	Now func() time.Time
}

// Parse reads a bookmark file. Folders become categories named after the
// folder (Parent set to the enclosing folder's category); each bookmark
// belongs to its innermost folder. A URL found several times yields one
// bookmark in several categories.
func Parse(r io.Reader, opts Options) (*domain.Snapshot, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bookmark file: %w", err)
	}

	if opts.DefaultCategory == "" {
		opts.DefaultCategory = domain.DefaultCategoryName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	p := &parser{
		opts:  opts,
		now:   opts.Now().UTC(),
		snap:  &domain.Snapshot{},
		byURL: make(map[string]*domain.Bookmark),
		cats:  make(map[int64]bool),
	}
	p.walk(doc)
	return p.snap, nil
}

type parser struct {
	opts  Options
	now   time.Time
	snap  *domain.Snapshot
	byURL map[string]*domain.Bookmark
	cats  map[int64]bool

	folders []*domain.Category // open folders, innermost last
	pending *domain.Category   // folder whose <DL> has not started yet
	last    *domain.Bookmark   // target of a following <DD> description
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h3":
			p.pending = p.category(textContent(n))
			p.last = nil
			return

		case "a":
			p.last = p.bookmark(n)
			return

		case "dd":
			if p.last != nil && p.last.Description == "" {
				p.last.Description = directText(n)
			}
			p.last = nil

		case "dl":
			pushed := false
			if p.pending != nil {
				p.folders = append(p.folders, p.pending)
				p.pending = nil
				pushed = true
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				p.walk(c)
			}
			if pushed {
				p.folders = p.folders[:len(p.folders)-1]
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

// category registers a folder, nested under the innermost open one.
func (p *parser) category(name string) *domain.Category {
	if name == "" {
		return nil
	}
	c := domain.NewCategory(name)
	if len(p.folders) > 0 {
		c.Parent = p.folders[len(p.folders)-1].ID
	}
	p.register(c)
	return c
}

func (p *parser) register(c *domain.Category) {
	if p.cats[c.ID] {
		return
	}
	p.cats[c.ID] = true
	p.snap.Categories = append(p.snap.Categories, c)
}

func (p *parser) bookmark(n *html.Node) *domain.Bookmark {
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" || strings.HasPrefix(strings.ToLower(href), "place:") {
		return nil
	}

	var cat *domain.Category
	if len(p.folders) > 0 {
		cat = p.folders[len(p.folders)-1]
	} else {
		cat = domain.NewCategory(p.opts.DefaultCategory)
		p.register(cat)
	}

	if b, ok := p.byURL[href]; ok {
		if !b.InCategory(cat.ID) {
			b.CategoryIDs = append(b.CategoryIDs, cat.ID)
		}
		return nil
	}

	name := textContent(n)
	if name == "" {
		name = href
	}

	createdAt := unixAttr(n, "add_date")
	if createdAt.IsZero() {
		createdAt = p.now
	}

	b := &domain.Bookmark{
		ID:          domain.BookmarkID(href),
		URL:         href,
		Name:        name,
		Image:       attr(n, "icon_uri"),
		Visible:     true,
		Updated:     unixAttr(n, "last_modified"),
		Notes:       attr(n, "tags"),
		RSS:         attr(n, "feedurl"),
		CategoryIDs: []int64{cat.ID},
		Sources:     []string{SourceName},
		CreatedAt:   createdAt,
	}
	if strings.EqualFold(attr(n, "private"), "1") {
		b.Visible = false
	}

	p.byURL[href] = b
	p.snap.Bookmarks = append(p.snap.Bookmarks, b)
	return b
}

func unixAttr(n *html.Node, key string) time.Time {
	v := attr(n, key)
	if v == "" {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// textContent concatenates all text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(b.String())
}

// directText is the text of n's own text children. A <DD> may swallow the
// folder <DL> that follows it, which must not leak into the description.
func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// attr looks up an attribute; the parser lowercases keys.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
