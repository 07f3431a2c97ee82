package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests          *prometheus.CounterVec
	CandidatesLocated prometheus.Histogram
	RequestSeconds    *prometheus.HistogramVec
	APIErrors         *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_requests_total",
			Help: "Total number of nearest-driver requests by outcome.",
		}, []string{"outcome"}),
		CandidatesLocated: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_candidates_located",
			Help:    "Number of candidate vehicles returned by the locator per request.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10, 20},
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "routing_provider_request_duration_seconds",
			Help:    "Duration of requests to the routing provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		APIErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "routing_provider_api_errors_total",
			Help: "Total number of errors received from the routing provider API.",
		}, []string{"provider", "operation"}),
	}
}
