package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/metrics"
)

// Observability writes an access log line and, when m is set, request
// metrics for every request. The path label is the chi route pattern, so
// /assignments/7 and /assignments/8 share a series.
func Observability(logger logx.Logger, m *metrics.HTTP) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// handler wrote nothing, net/http sends 200
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			path := routePattern(r)

			m.Observe(r.Method, path, strconv.Itoa(status), elapsed.Seconds())
			logger.Info("http request", accessFields(r, path, status, elapsed, ww.BytesWritten())...)
		})
	}
}

func accessFields(r *http.Request, path string, status int, elapsed time.Duration, bytes int) []logx.Field {
	fields := []logx.Field{
		logx.String("method", r.Method),
		logx.String("path", path),
		logx.Int("status", status),
		logx.Int("bytes", bytes),
		logx.Duration("duration", elapsed),
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		fields = append(fields, logx.String("req_id", id))
	}
	return fields
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
