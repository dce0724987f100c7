package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-cleaning-booking/internal/http/handlers"
	obs "service-cleaning-booking/internal/http/middleware"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/metrics"
)

const requestTimeout = 5 * time.Second

// New constructs a chi-based http.Handler with base middleware and routes.
// m may be nil to skip request metrics.
func New(h *handlers.Handlers, ah *handlers.AssignmentHandler, m *metrics.HTTP, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(logger, m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/ping", h.Ping)
	r.Get("/healthcheck", h.Healthcheck)
	r.Head("/healthcheck", h.Healthcheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", ah.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ah.GetByID)
			r.Delete("/", ah.Delete)
			r.Post("/transitions", ah.Transition)
			r.Get("/history", ah.History)
		})
	})

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
