package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btr_request_duration_seconds",
			Help:    "Rectification request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btr_request_total",
			Help: "Total number of rectification requests",
		},
		[]string{"operation", "status"},
	)

	CandidatesEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btr_candidates_evaluated_total",
			Help: "Total candidate instants evaluated by scans",
		},
		[]string{"operation"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "btr_sweep_top_confidence",
			Help:    "Top candidate confidence per sweep",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	RectifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btr_rectified_total",
			Help: "Charts analyzed, by rectification verdict",
		},
		[]string{"rectified"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btr_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btr_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	NativesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "btr_natives_stored",
			Help: "Saved natives as of the last listing",
		},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "btr_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RequestDuration,
		RequestTotal,
		CandidatesEvaluated,
		ConfidenceScore,
		RectifiedTotal,
		CacheHits,
		CacheMisses,
		NativesStored,
		RateLimited,
	}
}

// Init registers the collectors with the default registry.
func Init() {
	prometheus.MustRegister(collectors()...)
}

// Register adds the collectors to reg, for tests and embedded servers.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
