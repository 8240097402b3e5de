// Package httpapi assembles the HTTP surface: middleware order, route
// mounting and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pawtrail/internal/announcement/handler"
	"pawtrail/internal/httpapi/shared"
	"pawtrail/internal/platform/config"
	"pawtrail/internal/platform/metrics"
	"pawtrail/internal/platform/middleware"
)

// NewRouter wires the full request pipeline. RequestID runs first so every
// later stage, including metrics and panic recovery, sees the correlation id.
func NewRouter(
	cfg *config.Config,
	h *handler.Handler,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recover(logger))

	r.NotFound(shared.NotFound)
	r.MethodNotAllowed(shared.NotFound)

	r.Route("/api/v1/announcements", h.Register)
	r.Route("/api/v1/admin/announcements", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminToken, logger))
		h.RegisterAdmin(r)
	})

	r.Handle(cfg.PhotoBaseURL+"/*", http.StripPrefix(cfg.PhotoBaseURL+"/",
		http.FileServer(http.Dir(cfg.PhotoDir))))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		shared.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
