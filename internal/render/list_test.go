package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/golden"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

// fakeCatalog evaluates queries in memory and records the bookmark queries it saw.
type fakeCatalog struct {
	categories []*domain.Category
	bookmarks  []*domain.Bookmark
	catErr     error
	bmErr      error
	queries    []domain.BookmarkQuery
}

func (f *fakeCatalog) QueryCategories(_ context.Context, q domain.CategoryQuery) ([]*domain.Category, error) {
	if f.catErr != nil {
		return nil, f.catErr
	}
	return domain.SelectCategories(f.categories, f.bookmarks, q), nil
}

func (f *fakeCatalog) QueryBookmarks(_ context.Context, q domain.BookmarkQuery) ([]*domain.Bookmark, error) {
	f.queries = append(f.queries, q)
	if f.bmErr != nil {
		return nil, f.bmErr
	}
	return domain.SelectBookmarks(f.bookmarks, f.categories, q), nil
}

func fixtureCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: []*domain.Category{
			{ID: 3, Name: "News", Slug: "news"},
			{ID: 5, Name: "Friends", Slug: "friends"},
			{ID: 9, Name: "Private", Slug: "private"},
		},
		bookmarks: []*domain.Bookmark{
			{ID: 1, Name: "Example", URL: "http://example.com", Visible: true, CategoryIDs: []int64{3}},
			{
				ID: 2, Name: "Tom & Jerry", URL: "cartoons.example/tj", Description: "Cat <b>and</b> mouse",
				Rating: 4, Target: "_blank", Rel: "friend", Visible: true, CategoryIDs: []int64{5},
			},
			{ID: 3, Name: "Secret", URL: "https://secret.example", Visible: false, CategoryIDs: []int64{9}},
		},
	}
}

func list(t *testing.T, cat Catalog, args string) string {
	t.Helper()
	opts := ParseListArgs(args)
	opts.Echo = false
	got, err := newTestRenderer(cat).List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List(%q) error: %v", args, err)
	}
	return got
}

func TestListCategorized(t *testing.T) {
	got := list(t, fixtureCatalog(), "")
	golden.Assert(t, got, "list_categorized.golden")
}

func TestListSingleCategoryBlock(t *testing.T) {
	got := list(t, fixtureCatalog(), "category=3")

	want := "<li id=\"linkcat-3\" class=\"linkcat\"><h2>News</h2>\n\t<ul class='xoxo blogroll'>\n" +
		"<li><a href=\"http://example.com\">Example</a></li>\n" +
		"\n\t</ul>\n</li>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestListCategoryQueriesAreScoped(t *testing.T) {
	cat := fixtureCatalog()
	list(t, cat, "category_name=news")

	if len(cat.queries) != 1 {
		t.Fatalf("expected 1 bookmark query, got %d", len(cat.queries))
	}
	q := cat.queries[0]
	if diff := cmp.Diff([]int64{3}, q.Category); diff != "" {
		t.Errorf("category filter mismatch (-want +got):\n%s", diff)
	}
	if q.CategoryName != "" {
		t.Errorf("per-category query kept category_name %q", q.CategoryName)
	}
}

func TestListFallsBackWhenNoCategoryMatches(t *testing.T) {
	cat := &fakeCatalog{
		bookmarks: []*domain.Bookmark{
			{ID: 1, Name: "Example", URL: "http://example.com", Visible: true},
		},
	}

	got := list(t, cat, "")
	want := "<li id=\"linkcat-\" class=\"linkcat\"><h2>Bookmarks</h2>\n\t<ul class='xoxo blogroll'>\n" +
		"<li><a href=\"http://example.com\">Example</a></li>\n" +
		"\n\t</ul>\n</li>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmptyCategoriesDoNotFallBack(t *testing.T) {
	// Private only holds an invisible bookmark: it survives the category
	// query but renders nothing.
	got := list(t, fixtureCatalog(), "category=9")
	if got != "" {
		t.Errorf("List() = %q, want empty output", got)
	}
}

func TestListUncategorized(t *testing.T) {
	t.Run("without title renders bare items", func(t *testing.T) {
		got := list(t, fixtureCatalog(), "categorize=0&title_li=")
		want := "<li><a href=\"http://example.com\">Example</a></li>\n" +
			"<li><a href=\"http://cartoons.example/tj\" rel=\"friend\" title=\"Cat and mouse\" target=\"_blank\">Tom &amp; Jerry</a></li>\n"
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("with title wraps in one block", func(t *testing.T) {
		got := list(t, fixtureCatalog(), "categorize=0&title_li=Links&category=3&class=link+cat%3Cx%3E")
		want := "<li id=\"linkcat-3\" class=\"link catx\"><h2>Links</h2>\n\t<ul class='xoxo blogroll'>\n" +
			"<li><a href=\"http://example.com\">Example</a></li>\n" +
			"\n\t</ul>\n</li>\n"
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no bookmarks renders nothing", func(t *testing.T) {
		if got := list(t, fixtureCatalog(), "categorize=0&search=nothing-matches"); got != "" {
			t.Errorf("List() = %q, want empty output", got)
		}
	})
}

func TestListRecentlyUpdated(t *testing.T) {
	cat := fixtureCatalog()
	// newTestRenderer's clock reads 16:00 UTC.
	cat.bookmarks[0].Updated = time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC)

	got := list(t, cat, "category=3&show_updated=1")
	if !strings.Contains(got, "<li><em><a href=\"http://example.com\" title=\"Last updated: October 18, 2026 5:04 pm\">Example</a></em></li>\n") {
		t.Errorf("List() did not emphasize the recent bookmark:\n%s", got)
	}
}

func TestListEcho(t *testing.T) {
	var buf bytes.Buffer
	r := New(Config{Catalog: fixtureCatalog(), Output: &buf})

	opts := ParseListArgs("category=3")
	got, err := r.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if got != "" {
		t.Errorf("echo=1 returned %q, want nothing", got)
	}
	if !strings.HasPrefix(buf.String(), "<li id=\"linkcat-3\" class=\"linkcat\"><h2>News</h2>") {
		t.Errorf("echo=1 wrote %q", buf.String())
	}

	buf.Reset()
	opts.Echo = false
	got, err = r.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if got == "" || buf.Len() != 0 {
		t.Errorf("echo=0 returned %q and wrote %q", got, buf.String())
	}
}

func TestListFiltersRunInOrder(t *testing.T) {
	r := New(Config{
		Catalog: fixtureCatalog(),
		Filters: []Filter{
			func(s string) string { return "<div>" + s },
			nil,
			func(s string) string { return s + "</div>" },
			strings.TrimSpace,
		},
	})

	opts := ParseListArgs("categorize=0&title_li=&category=3&echo=0")
	got, err := r.List(context.Background(), opts)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := "<div><li><a href=\"http://example.com\">Example</a></li>\n</div>"
	if got != want {
		t.Errorf("List() = %q, want %q", got, want)
	}
}

func TestListErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		cat  Catalog
		args string
		want error
	}{
		{"no catalog", nil, "", ErrNoCatalog},
		{"category query", &fakeCatalog{catErr: boom}, "", boom},
		{"bookmark query", &fakeCatalog{categories: fixtureCatalog().categories, bookmarks: fixtureCatalog().bookmarks, bmErr: boom}, "", boom},
		{"uncategorized query", &fakeCatalog{bmErr: boom}, "categorize=0", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ParseListArgs(tt.args)
			opts.Echo = false
			_, err := New(Config{Catalog: tt.cat}).List(context.Background(), opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("List() error = %v, want %v", err, tt.want)
			}
		})
	}
}
