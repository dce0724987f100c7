package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTP holds request metrics labelled by method, route pattern and status.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

var httpLabels = []string{"method", "path", "status"}

// NewHTTP returns unregistered request metrics.
func NewHTTP() *HTTP {
	return &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, httpLabels),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, httpLabels),
	}
}

// RegisterHTTP builds request metrics and registers them with r, reusing
// collectors a previous call already registered.
func RegisterHTTP(r prometheus.Registerer) (*HTTP, error) {
	m := NewHTTP()
	var err error
	if m.Requests, err = RegisterOrExisting(r, m.Requests); err != nil {
		return nil, err
	}
	if m.Duration, err = RegisterOrExisting(r, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished request.
func (m *HTTP) Observe(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, path, status).Inc()
	m.Duration.WithLabelValues(method, path, status).Observe(seconds)
}
