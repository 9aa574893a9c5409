package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samvaad_upload_batches_total",
			Help: "Upload batches processed, by outcome",
		},
		[]string{"status"},
	)

	UploadBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "samvaad_upload_batch_size",
			Help:    "Documents per upload batch",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	ReviewsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samvaad_reviews_appended_total",
			Help: "Reviews appended to ledgers",
		},
	)

	ClassifierDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "samvaad_classifier_request_duration_seconds",
			Help:    "Classifier batch request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	SummaryRepairs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samvaad_summary_repairs_total",
			Help: "Cached summaries rewritten after disagreeing with the ledger",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samvaad_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samvaad_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(UploadBatches)
	prometheus.MustRegister(UploadBatchSize)
	prometheus.MustRegister(ReviewsAppended)
	prometheus.MustRegister(ClassifierDuration)
	prometheus.MustRegister(SummaryRepairs)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
