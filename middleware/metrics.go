package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultValid   = "valid"
	resultInvalid = "invalid"
	resultError   = "error"
)

// Metrics counts validated requests by route and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goshape_requests_total",
				Help: "Request bodies validated, by route and result",
			},
			[]string{"route", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goshape_validation_duration_seconds",
				Help:    "Time spent decoding and validating request bodies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(r *http.Request, result string, start time.Time) {
	if m == nil {
		return
	}
	route := routeLabel(r)
	m.requests.WithLabelValues(route, result).Inc()
	m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
