package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkroll/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkroll/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkroll/internal/httpserver/mw"
)

func init() { Register("links", registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RatePerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		}),
	).Get("/links", handlers.Links(d))
}
