package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkroll/internal/httpserver/deps"
	redisstore "github.com/MrSnakeDoc/linkroll/internal/store/redis"
)

type componentStatus struct {
	OK              bool                    `json:"ok"`
	BookmarksLoaded *int                    `json:"bookmarks_loaded,omitempty"`
	Categories      *int                    `json:"categories,omitempty"`
	LastReload      string                  `json:"last_reload,omitempty"`
	Mode            string                  `json:"mode,omitempty"`
	Impact          string                  `json:"impact,omitempty"`
	Stats           *redisstore.RenderStats `json:"stats,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		bookmarks := d.MemoryIndex.BookmarkCount()
		categories := d.MemoryIndex.CategoryCount()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:              bookmarks > 0,
				BookmarksLoaded: &bookmarks,
				Categories:      &categories,
				LastReload:      lastReloadStr,
				Mode:            d.CatalogMode,
			},
			"redis":  checkRedis(ctx, d),
			"sqlite": checkSQLite(ctx, d),
		}

		response := infraResponse{
			ServingMode: determineServingMode(d, components),
			Components:  components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineServingMode(d deps.Deps, components map[string]componentStatus) string {
	if d.CatalogMode == "sqlite" {
		if !components["sqlite"].OK {
			return "critical"
		}
	} else if catalog, ok := components["catalog"]; ok && !catalog.OK {
		return "critical"
	}

	// Redis only backs the render cache; listings are still served without it.
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "uncached"
	}

	return "cached"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil || d.RenderStore == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "render-cache-disabled",
		}
	}

	if err := d.RenderStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "render-cache-disabled",
			Error:  "timeout",
		}
	}

	status := componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "render-cache-enabled",
	}
	if stats, err := d.RenderStore.GetRenderStats(ctx); err == nil {
		status.Stats = &stats
	}
	return status
}

func checkSQLite(ctx context.Context, d deps.Deps) componentStatus {
	if d.SQLite == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}
	if err := d.SQLite.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
