package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixtureCategories() []*Category {
	return []*Category{
		{ID: 3, Name: "News", Slug: "news"},
		{ID: 5, Name: "friends", Slug: "friends"},
		{ID: 7, Name: "Empty", Slug: "empty"},
	}
}

func fixtureBookmarks(now time.Time) []*Bookmark {
	return []*Bookmark{
		{ID: 1, Name: "Zeta", URL: "https://zeta.example", Visible: true, Rating: 2, CategoryIDs: []int64{3}, Updated: now.Add(-10 * time.Minute)},
		{ID: 2, Name: "alpha", URL: "https://alpha.example", Visible: true, Rating: 9, CategoryIDs: []int64{5}, Description: "Old friend"},
		{ID: 3, Name: "Hidden", URL: "https://hidden.example", Visible: false, CategoryIDs: []int64{3}},
		{ID: 4, Name: "Beta", URL: "https://beta.example", Visible: true, Rating: 5, CategoryIDs: []int64{3, 5}, Updated: now.Add(-5 * time.Hour)},
		{ID: 5, Name: "Gone", URL: "https://gone.example", Visible: true, CategoryIDs: []int64{3}, Disabled: true},
	}
}

func ids(list []*Bookmark) []int64 {
	out := make([]int64, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func TestSelectBookmarks(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query BookmarkQuery
		want  []int64
	}{
		{
			name:  "default name order hides invisible",
			query: BookmarkQuery{HideInvisible: true},
			want:  []int64{2, 4, 1},
		},
		{
			name:  "invisible included on request",
			query: BookmarkQuery{},
			want:  []int64{2, 4, 3, 1},
		},
		{
			name:  "descending rating",
			query: BookmarkQuery{OrderBy: "rating", Order: "desc", HideInvisible: true},
			want:  []int64{2, 4, 1},
		},
		{
			name:  "link_ prefix and limit",
			query: BookmarkQuery{OrderBy: "link_id", Limit: 2},
			want:  []int64{1, 2},
		},
		{
			name:  "category filter",
			query: BookmarkQuery{Category: []int64{5}, HideInvisible: true},
			want:  []int64{2, 4},
		},
		{
			name:  "category name resolves case-insensitively",
			query: BookmarkQuery{CategoryName: "NEWS", HideInvisible: true},
			want:  []int64{4, 1},
		},
		{
			name:  "unknown category name yields nothing",
			query: BookmarkQuery{CategoryName: "missing"},
			want:  []int64{},
		},
		{
			name:  "include wins over exclude and category",
			query: BookmarkQuery{Include: []int64{1, 3}, Exclude: []int64{1}, Category: []int64{5}},
			want:  []int64{3, 1},
		},
		{
			name:  "exclude",
			query: BookmarkQuery{Exclude: []int64{4}, HideInvisible: true},
			want:  []int64{2, 1},
		},
		{
			name:  "search matches description",
			query: BookmarkQuery{Search: "FRIEND"},
			want:  []int64{2},
		},
		{
			name:  "unknown order key falls back to name",
			query: BookmarkQuery{OrderBy: "bogus", HideInvisible: true},
			want:  []int64{2, 4, 1},
		},
		{
			name:  "length order",
			query: BookmarkQuery{OrderBy: "length,name", HideInvisible: true},
			want:  []int64{4, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SelectBookmarks(fixtureBookmarks(now), fixtureCategories(), tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SelectBookmarks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectBookmarksRecentlyUpdated(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	q := BookmarkQuery{
		HideInvisible:         true,
		ShowUpdated:           true,
		RecentlyUpdatedWindow: 2 * time.Hour,
		Now:                   now,
	}

	got := SelectBookmarks(fixtureBookmarks(now), nil, q)
	recent := map[int64]bool{}
	for _, b := range got {
		recent[b.ID] = b.RecentlyUpdated
	}

	want := map[int64]bool{1: true, 2: false, 4: false}
	if diff := cmp.Diff(want, recent); diff != "" {
		t.Errorf("RecentlyUpdated mismatch (-want +got):\n%s", diff)
	}

	q.ShowUpdated = false
	for _, b := range SelectBookmarks(fixtureBookmarks(now), nil, q) {
		if b.RecentlyUpdated {
			t.Errorf("bookmark %d flagged recently updated without ShowUpdated", b.ID)
		}
	}
}

func TestSelectBookmarksReturnsCopies(t *testing.T) {
	all := fixtureBookmarks(time.Now())
	got := SelectBookmarks(all, nil, BookmarkQuery{Include: []int64{1}})
	if len(got) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(got))
	}
	got[0].Name = "mutated"
	got[0].CategoryIDs[0] = 99

	if all[0].Name != "Zeta" || all[0].CategoryIDs[0] != 3 {
		t.Error("SelectBookmarks() leaked a reference to the stored bookmark")
	}
}

func TestSelectCategories(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		query CategoryQuery
		want  []int64
	}{
		{
			name:  "name order case-insensitive, empty kept",
			query: CategoryQuery{},
			want:  []int64{7, 5, 3},
		},
		{
			name:  "hide empty",
			query: CategoryQuery{HideEmpty: true},
			want:  []int64{5, 3},
		},
		{
			name:  "count descending",
			query: CategoryQuery{OrderBy: "count", Order: "DESC", HideEmpty: true},
			want:  []int64{3, 5},
		},
		{
			name:  "name like",
			query: CategoryQuery{NameLike: "ew"},
			want:  []int64{3},
		},
		{
			name:  "include and exclude",
			query: CategoryQuery{Include: []int64{3, 5}, Exclude: []int64{5}},
			want:  []int64{3},
		},
		{
			name:  "id order",
			query: CategoryQuery{OrderBy: "id"},
			want:  []int64{3, 5, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := SelectCategories(fixtureCategories(), fixtureBookmarks(now), tt.query)
			got := make([]int64, 0, len(cats))
			for _, c := range cats {
				got = append(got, c.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SelectCategories() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectCategoriesCountsSkipDisabled(t *testing.T) {
	cats := SelectCategories(fixtureCategories(), fixtureBookmarks(time.Now()), CategoryQuery{Include: []int64{3}})
	if len(cats) != 1 {
		t.Fatalf("expected 1 category, got %d", len(cats))
	}
	// Zeta, Hidden and Beta; Gone is disabled
	if cats[0].Count != 3 {
		t.Errorf("Count = %d, want 3", cats[0].Count)
	}
}
