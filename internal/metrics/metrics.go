package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts placement attempts by outcome and tracks how long a
// full placement takes, lock waits included.
type CheckoutMetrics struct {
	Placements *prometheus.CounterVec
	LatencyMS  prometheus.Histogram
}

func NewCheckoutMetrics(service string) *CheckoutMetrics {
	// service names like "checkout-service" carry hyphens, which metric
	// names forbid
	service = strings.ReplaceAll(service, "-", "_")
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: service,
		Name:      "placements_total",
		Help:      "Total number of order placement attempts.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkout",
		Subsystem: service,
		Name:      "placement_duration_ms",
		Help:      "Order placement latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	prometheus.MustRegister(placements, latency)
	return &CheckoutMetrics{Placements: placements, LatencyMS: latency}
}

// Record is nil-safe so wiring metrics stays optional in tests.
func (m *CheckoutMetrics) Record(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.Placements.WithLabelValues(outcome).Inc()
	m.LatencyMS.Observe(float64(dur.Milliseconds()))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
