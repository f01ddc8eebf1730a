// Package httptransport is the thin HTTP layer of the admin console API. It
// delegates to the lifecycle and reminder services and keeps transport
// concerns out of the domain packages.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docgate/internal/expiry"
	"docgate/internal/platform/metrics"
	"docgate/internal/platform/middleware"
	"docgate/internal/transport/http/shared"
)

// Handler holds the services the admin endpoints delegate to.
type Handler struct {
	documents  DocumentService
	reminders  ReminderService
	classifier *expiry.Classifier
	trail      AuditTrail
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithAuditTrail surfaces the per-document admin action log on the details
// endpoint.
func WithAuditTrail(trail AuditTrail) Option {
	return func(h *Handler) { h.trail = trail }
}

// WithMetrics sets the request-level metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates the admin API handler.
func NewHandler(documents DocumentService, reminders ReminderService, classifier *expiry.Classifier, opts ...Option) *Handler {
	h := &Handler{
		documents:  documents,
		reminders:  reminders,
		classifier: classifier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wires the middleware chain and all endpoints. Health and metrics
// stay outside the admin guard.
func NewRouter(h *Handler, validator middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Latency(h.metrics))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAdmin(validator, h.logger))

		r.Get("/documents", h.handleListDocuments)
		r.Get("/documents/with-stats", h.handleListWithStats)
		r.Get("/documents/{id}", h.handleGetDocument)
		r.Post("/documents/{id}/status", h.handleApplyStatus)
		r.Post("/send-reminders", h.handleSendReminders)
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
