package app

import (
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/linkroll/internal/scheduler"
	"github.com/MrSnakeDoc/linkroll/internal/sources/homepage"
	"github.com/MrSnakeDoc/linkroll/internal/sources/netscape"
)

// NewSource picks the bookmark source for each comma separated path by
// extension: .html and .htm are Netscape exports, anything else is a
// homepage bookmarks.yaml. It returns nil when paths is empty.
func NewSource(paths string) scheduler.Source {
	var sources scheduler.MultiSource
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".html", ".htm":
			sources = append(sources, netscape.NewFileSource(p, netscape.Options{}))
		default:
			sources = append(sources, homepage.NewSource(p))
		}
	}

	switch len(sources) {
	case 0:
		return nil
	case 1:
		return sources[0]
	default:
		return sources
	}
}
