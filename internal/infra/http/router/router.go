package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/http/middleware"
)

type Options struct {
	Lead           *handlers.LeadHandler
	Admin          *handlers.AdminHandler
	Health         *handlers.HealthHandler
	AdminToken     string
	AllowedOrigins []string
	// TrustProxy liga o RealIP: só use atrás de um proxy que reescreve
	// X-Forwarded-For, senão o cliente escolhe o IP do rate limit.
	TrustProxy bool
	Logger     *zap.Logger
}

func New(o Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if o.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logging(o.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	if o.Health != nil {
		r.Get("/health", o.Health.Handle)
	}

	r.Route("/preliminaries", func(r chi.Router) {
		r.Post("/capture", o.Lead.CaptureLead)
		r.Post("/release", o.Lead.ReleaseLead)
	})

	// Sem token configurado a listagem não é exposta.
	if o.Admin != nil && o.AdminToken != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(handlers.RequireAdmin(o.AdminToken))
			r.Get("/preliminaries", o.Admin.List)
			r.Get("/preliminaries.json", o.Admin.ListJSON)
		})
	}

	return r
}
