package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/linkroll/internal/config"
	"github.com/MrSnakeDoc/linkroll/internal/domain"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/scheduler"
	"github.com/MrSnakeDoc/linkroll/internal/sources/homepage"
	"github.com/MrSnakeDoc/linkroll/internal/sources/netscape"
	"github.com/MrSnakeDoc/linkroll/internal/store/sqlite"
)

const homepageYAML = `---
- Developer:
    - Go:
        - href: https://go.dev
          description: The Go site
- Reading:
    - LWN:
        - href: https://lwn.net
`

const netscapeHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Friends</H3>
    <DL><p>
        <DT><A HREF="https://pal.example" ADD_DATE="1700000000">Pal</A>
    </DL><p>
</DL><p>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestNewSource(t *testing.T) {
	if src := NewSource(""); src != nil {
		t.Errorf("NewSource(\"\") = %v, want nil", src)
	}

	if _, ok := NewSource("/app/bookmarks.yaml").(*homepage.Source); !ok {
		t.Error("yaml path should select the homepage source")
	}
	if _, ok := NewSource("/app/Bookmarks.HTML").(*netscape.FileSource); !ok {
		t.Error("html path should select the netscape source")
	}

	multi, ok := NewSource("a.yaml, b.htm").(scheduler.MultiSource)
	if !ok || len(multi) != 2 {
		t.Fatalf("two paths should build a MultiSource, got %T", multi)
	}
	if got := multi.Name(); got != "homepage+netscape" {
		t.Errorf("Name() = %q", got)
	}
}

func TestRenderFromBookmarkFile(t *testing.T) {
	cfg := &config.Config{
		SiteURL:      "https://blog.example/",
		Catalog:      config.CatalogMemory,
		BookmarkFile: writeFile(t, "bookmarks.yaml", homepageYAML),
	}

	var out bytes.Buffer
	err := Render(context.Background(), cfg, logger.Nop(), "categorize=0&title_li=&show_description=1", &out)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := "<li><a href=\"https://go.dev\" title=\"The Go site\">Go</a>\nThe Go site</li>\n" +
		"<li><a href=\"https://lwn.net\">LWN</a></li>\n"
	if got := out.String(); got != want {
		t.Errorf("Render() wrote %q, want %q", got, want)
	}
}

func TestRenderSiteDefaults(t *testing.T) {
	cfg := &config.Config{
		SiteURL:      "https://blog.example/",
		Catalog:      config.CatalogMemory,
		BookmarkFile: writeFile(t, "bookmarks.yaml", homepageYAML),
		ListArgs:     "title_before=<h3>&title_after=</h3>",
	}

	var out bytes.Buffer
	if err := Render(context.Background(), cfg, logger.Nop(), "", &out); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out.String(), "<h3>Developer</h3>") {
		t.Errorf("site default title markup not applied:\n%s", out.String())
	}
}

func TestImportAndRenderFromSQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "links.db")
	file := writeFile(t, "bookmarks.html", netscapeHTML)

	n, err := Import(ctx, dbPath, file, "", logger.Nop())
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Import() = %d bookmarks, want 1", n)
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	got, err := db.GetAllBookmarks(ctx)
	_ = db.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != domain.BookmarkID("https://pal.example") {
		t.Fatalf("stored bookmarks = %+v", got)
	}

	cfg := &config.Config{
		SiteURL:  "https://blog.example/",
		Catalog:  config.CatalogSQLite,
		Database: dbPath,
	}
	var out bytes.Buffer
	if err := Render(ctx, cfg, logger.Nop(), "", &out); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out.String(), `<h2>Friends</h2>`) ||
		!strings.Contains(out.String(), `<a href="https://pal.example">Pal</a>`) {
		t.Errorf("unexpected listing:\n%s", out.String())
	}
}

func TestImportRequiresDatabase(t *testing.T) {
	_, err := Import(context.Background(), "", "bookmarks.html", "", logger.Nop())
	if !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Import() error = %v, want ErrNoDatabase", err)
	}
}
