package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/linkroll/internal/config"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/render"
	"github.com/MrSnakeDoc/linkroll/internal/sources/netscape"
	"github.com/MrSnakeDoc/linkroll/internal/store/sqlite"
	"github.com/MrSnakeDoc/linkroll/internal/utils"
)

// ErrNoDatabase is returned by Import without a database path.
var ErrNoDatabase = errors.New("no database configured (set LINKROLL_DATABASE or --database)")

// Render echoes one listing to out. The catalog is warmed from the stores
// and, in memory mode with a bookmark file configured, refreshed from it
// first. args are list arguments merged onto the site defaults.
func Render(ctx context.Context, cfg *config.Config, log logger.Logger, args string, out io.Writer) error {
	c, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.close(log)

	if c.source != nil && cfg.Catalog == config.CatalogMemory {
		snap, err := c.source.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load bookmarks: %w", err)
		}
		c.memIndex.Replace(snap.Categories, snap.Bookmarks)
	}

	values, err := url.ParseQuery(strings.TrimPrefix(args, "?"))
	if err != nil {
		return fmt.Errorf("invalid list arguments: %w", err)
	}
	opts := render.MergeListArgs(render.ParseListArgs(cfg.ListArgs), values)
	opts.Echo = true

	rc := c.renderConfig
	rc.Output = out
	_, err = render.New(rc).List(ctx, opts)
	return err
}

// Import parses a Netscape bookmark file and upserts it into the SQLite
// database at dbPath. It returns how many bookmarks were written.
func Import(ctx context.Context, dbPath, file, category string, log logger.Logger) (int, error) {
	if dbPath == "" {
		return 0, ErrNoDatabase
	}

	snap, err := netscape.NewFileSource(file, netscape.Options{DefaultCategory: category}).Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", file, err)
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer utils.CloseLogged(db, log, "sqlite")

	if err := db.SaveSnapshot(ctx, snap); err != nil {
		return 0, fmt.Errorf("failed to import bookmarks: %w", err)
	}

	log.Info("imported bookmarks",
		logger.String("file", file),
		logger.String("database", dbPath),
		logger.Int("bookmarks", len(snap.Bookmarks)),
		logger.Int("categories", len(snap.Categories)))
	return len(snap.Bookmarks), nil
}
