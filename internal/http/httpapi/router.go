// Package httpapi assembles the chi router for the public API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mealcheck/internal/http/handlers"
	"mealcheck/internal/middleware"
)

// Options carries the cross-cutting router configuration.
type Options struct {
	JWTSecret          string
	AllowedOrigins     []string
	DefaultLocale      string
	CountryLookup      middleware.CountryLookup
	RateLimitPerMinute int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/google", app.AuthGoogleVerify)
	})

	// analysis serves guests too, so auth is optional here
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthOptionalJWT(opts.JWTSecret))
		r.Post("/v1/analyze", app.Analyze)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Get("/v1/me", app.Me)
		r.Post("/v1/menu", app.Menu)
	})

	return r
}
