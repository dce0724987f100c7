package handlers

import (
	"context"
	"net/http"
	"time"

	"service-cleaning-booking/internal/logx"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency the service needs is reachable.
type Pinger func(ctx context.Context) error

// Handlers serves the endpoints that are not tied to a resource.
type Handlers struct {
	logger logx.Logger
	ping   Pinger
}

// New returns service handlers. ping may be nil when there is nothing
// external to check, as with in-memory storage.
func New(logger logx.Logger, ping Pinger) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{logger: logger, ping: ping}
}

// Ping answers GET /ping with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// Healthcheck answers GET and HEAD /healthcheck. It returns 503 while the
// ping fails.
func (h *Handlers) Healthcheck(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("healthcheck failed", logx.Err(err))
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeJSON(h.logger, w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound renders unknown routes as a JSON 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.logger, w, r, http.StatusNotFound, "route not found")
}
