package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/creativechef/internal/middleware"
	"github.com/socialchef/creativechef/internal/sentry"
	"github.com/socialchef/creativechef/internal/web"
)

type RouterConfig struct {
	ServiceName    string
	JWTSecret      string
	JWTIssuer      string
	AllowedOrigins []string
}

// NewRouter mounts the pages, the JSON API and the static assets.
func NewRouter(s *Server, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(sentry.HTTPMiddleware)
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", HandleHealth)
	r.Handle("/static/*", web.StaticHandler())

	r.Get("/", s.HandleHome)
	r.Get("/about", s.HandleAbout)
	r.Post("/generate", s.HandleGenerateForm)
	r.Post("/export", s.HandleExportForm)

	r.Route("/api", func(r chi.Router) {
		r.Post("/recipes", s.HandleGenerateRecipe)
		r.Post("/recipes/export", s.HandleExportRecipe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
			r.Get("/history", s.HandleHistory)
		})
	})

	return r
}
