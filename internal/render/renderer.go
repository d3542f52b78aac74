// Package render turns bookmark records into the HTML of a links directory:
// Walk formats a flat run of bookmarks, List assembles the categorized
// listing around it.
package render

import (
	"io"
	"os"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/logger"
)

// Config wires a Renderer to its collaborators. Only Catalog is required
// for List; Walk needs none of them.
type Config struct {
	Catalog   Catalog
	Settings  SiteSettings
	Sanitizer Sanitizer
	Filters   []Filter         // applied in order to the assembled list
	Output    io.Writer        // echo destination, defaults to os.Stdout
	Now       func() time.Time // defaults to time.Now
	Logger    logger.Logger
}

// Renderer renders bookmark listings. It holds no per-call state and is
// safe for concurrent use when its collaborators are.
type Renderer struct {
	catalog   Catalog
	settings  SiteSettings
	sanitizer Sanitizer
	filters   []Filter
	out       io.Writer
	now       func() time.Time
	logger    logger.Logger
}

// New builds a Renderer, filling unset collaborators with defaults.
func New(cfg Config) *Renderer {
	r := &Renderer{
		catalog:   cfg.Catalog,
		settings:  cfg.Settings,
		sanitizer: cfg.Sanitizer,
		filters:   append([]Filter(nil), cfg.Filters...),
		out:       cfg.Output,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}
	if r.settings == nil {
		r.settings = Settings{}
	}
	if r.sanitizer == nil {
		r.sanitizer = NewFieldSanitizer()
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = logger.Nop()
	}
	return r
}
