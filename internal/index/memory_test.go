package index

import (
	"context"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

func sampleCatalog() ([]*domain.Category, []*domain.Bookmark) {
	cats := []*domain.Category{
		{ID: 3, Name: "News", Slug: "news"},
		{ID: 5, Name: "Tools", Slug: "tools"},
	}
	bms := []*domain.Bookmark{
		{ID: 10, Name: "Go", URL: "https://go.dev", Visible: true, CategoryIDs: []int64{5}},
		{ID: 11, Name: "LWN", URL: "https://lwn.net", Visible: true, CategoryIDs: []int64{3}},
		{ID: 12, Name: "Draft", URL: "https://draft.example", Visible: false, CategoryIDs: []int64{3}},
	}
	return cats, bms
}

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if n := index.BookmarkCount(); n != 0 {
		t.Errorf("NewMemoryIndex() should start empty, got %v bookmarks", n)
	}
	if !index.GetLastReload().IsZero() {
		t.Error("NewMemoryIndex() should not report a reload yet")
	}
}

func TestReplace(t *testing.T) {
	index := NewMemoryIndex()
	cats, bms := sampleCatalog()
	index.Replace(cats, bms)

	if index.BookmarkCount() != 3 || index.CategoryCount() != 2 {
		t.Fatalf("Replace() stored %d bookmarks and %d categories, want 3 and 2",
			index.BookmarkCount(), index.CategoryCount())
	}
	if index.GetLastReload().IsZero() {
		t.Error("Replace() should record the reload time")
	}

	index.Replace(cats[:1], bms[1:2])
	if index.BookmarkCount() != 1 || index.CategoryCount() != 1 {
		t.Errorf("Replace() should overwrite, got %d bookmarks and %d categories",
			index.BookmarkCount(), index.CategoryCount())
	}
	if _, ok := index.GetBookmark(10); ok {
		t.Error("Replace() kept a bookmark from the previous catalog")
	}
}

func TestGetAllIsOrderedByID(t *testing.T) {
	index := NewMemoryIndex()
	cats, bms := sampleCatalog()
	index.UpdateCategories([]*domain.Category{cats[1], cats[0]})
	index.UpdateBookmarks([]*domain.Bookmark{bms[2], bms[0], bms[1]})

	got := index.GetAllBookmarks()
	for i := 1; i < len(got); i++ {
		if got[i-1].ID > got[i].ID {
			t.Fatalf("GetAllBookmarks() not ordered: %d before %d", got[i-1].ID, got[i].ID)
		}
	}
	if c := index.GetAllCategories(); c[0].ID != 3 {
		t.Errorf("GetAllCategories()[0] = %d, want 3", c[0].ID)
	}
}

func TestAddAndDeleteBookmark(t *testing.T) {
	index := NewMemoryIndex()
	index.AddBookmark(&domain.Bookmark{ID: 1, Name: "one"})
	index.AddBookmark(&domain.Bookmark{ID: 1, Name: "uno"})

	b, ok := index.GetBookmark(1)
	if !ok || b.Name != "uno" {
		t.Fatalf("AddBookmark() should upsert, got %+v", b)
	}

	index.DeleteBookmark(1)
	index.DeleteBookmark(42)
	if index.BookmarkCount() != 0 {
		t.Errorf("DeleteBookmark() left %d bookmarks", index.BookmarkCount())
	}
}

func TestQueryBookmarks(t *testing.T) {
	index := NewMemoryIndex()
	index.Replace(sampleCatalog())

	got, err := index.QueryBookmarks(context.Background(), domain.BookmarkQuery{
		CategoryName:  "news",
		HideInvisible: true,
	})
	if err != nil {
		t.Fatalf("QueryBookmarks() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 11 {
		t.Fatalf("QueryBookmarks() = %v, want only bookmark 11", got)
	}

	got[0].Name = "changed"
	if b, _ := index.GetBookmark(11); b.Name != "LWN" {
		t.Error("QueryBookmarks() should return copies")
	}
}

func TestQueryCategories(t *testing.T) {
	index := NewMemoryIndex()
	index.Replace(sampleCatalog())

	got, err := index.QueryCategories(context.Background(), domain.CategoryQuery{
		OrderBy:   domain.CategoryOrderByCount,
		Order:     domain.OrderDesc,
		HideEmpty: true,
	})
	if err != nil {
		t.Fatalf("QueryCategories() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[0].Count != 2 {
		t.Errorf("QueryCategories() = %+v, want News (2) first", got)
	}
}

func TestQueryHonorsCanceledContext(t *testing.T) {
	index := NewMemoryIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := index.QueryBookmarks(ctx, domain.BookmarkQuery{}); err == nil {
		t.Error("QueryBookmarks() should fail on a canceled context")
	}
	if _, err := index.QueryCategories(ctx, domain.CategoryQuery{}); err == nil {
		t.Error("QueryCategories() should fail on a canceled context")
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()
	index.Replace(sampleCatalog())

	var wg sync.WaitGroup

	// Concurrent reads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = index.QueryBookmarks(context.Background(), domain.BookmarkQuery{HideInvisible: true})
		}()
	}

	// Concurrent writers
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			index.AddBookmark(&domain.Bookmark{ID: int64(100 + i), Name: "extra", Visible: true})
		}(i)
	}

	wg.Wait()

	if n := index.BookmarkCount(); n != 53 {
		t.Errorf("BookmarkCount() after concurrent adds = %v, want 53", n)
	}
}
