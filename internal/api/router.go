package api

import (
	"net/http"

	"github.com/dom/blitzadex/internal/api/handlers"
	"github.com/dom/blitzadex/internal/api/middleware"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/metrics"
	"github.com/dom/blitzadex/internal/service"
	"github.com/dom/blitzadex/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(metrics.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	championHandler := handlers.NewChampionHandler(services.Catalog)
	pluginHandler := handlers.NewPluginHandler(services.Catalog)
	statusHandler := handlers.NewStatusHandler(services.Status, cfg.GameDataPlugin)
	syncHandler := handlers.NewSyncHandler(services.Sync)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", statusHandler.Get)

		r.Route("/plugins", func(r chi.Router) {
			r.Get("/", pluginHandler.GetAll)
			r.Get("/{name}", pluginHandler.Get)
		})

		r.Route("/champions", func(r chi.Router) {
			r.Get("/", championHandler.GetAll)
			r.Get("/{id}", championHandler.Get)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/runs", syncHandler.ListRuns)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(services.Auth))
				r.Post("/", syncHandler.Trigger)
			})
		})

		// Sync event stream
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
