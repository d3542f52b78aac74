package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/linkroll/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Bookmarks int  `json:"bookmarks"`
}

// Readyz reports ready once the catalog holds at least one bookmark.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := catalogSize(r, d)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if count == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:     count > 0,
			Bookmarks: count,
		})
	}
}

func catalogSize(r *http.Request, d deps.Deps) int {
	if d.CatalogMode == "sqlite" && d.SQLite != nil {
		all, err := d.SQLite.GetAllBookmarks(r.Context())
		if err != nil {
			return 0
		}
		return len(all)
	}
	return d.MemoryIndex.BookmarkCount()
}
