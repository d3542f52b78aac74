package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkroll/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/render"
)

// Links renders the bookmark listing. The query string carries the list
// arguments (categorize, title_li, orderby, ...) merged onto the site
// defaults. Deterministic listings are served from the Redis render cache
// when one is configured.
func Links(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		opts := render.MergeListArgs(d.ListDefaults, r.URL.Query())
		opts.Echo = false

		cacheable := d.RenderStore != nil && d.RenderCacheTTL > 0 && opts.Deterministic()
		canonical := opts.Values().Encode()

		if cacheable {
			body, hit, err := d.RenderStore.GetCachedRender(ctx, canonical)
			if err != nil {
				d.Logger.Warn("render cache lookup failed", logger.Error(err))
			}
			if err := d.RenderStore.RecordRenderLookup(ctx, hit); err != nil {
				d.Logger.Debug("failed to record render lookup", logger.Error(err))
			}
			if hit {
				writeHTML(w, d, "HIT", body)
				return
			}
		}

		body, err := d.Renderer.List(ctx, opts)
		if err != nil {
			d.Logger.Error("failed to render bookmark list", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if cacheable {
			if err := d.RenderStore.CacheRender(ctx, canonical, body, d.RenderCacheTTL); err != nil {
				d.Logger.Warn("failed to cache rendered list", logger.Error(err))
			}
		}

		writeHTML(w, d, "MISS", body)
	}
}

func writeHTML(w http.ResponseWriter, d deps.Deps, cache, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}
