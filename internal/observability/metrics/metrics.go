package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                   sync.Once
	metricsRouter          *chi.Mux
	cycleDurationHistogram *prometheus.HistogramVec
	esiClientLatency       *prometheus.HistogramVec
	dbLatency              *prometheus.HistogramVec
	skippedPersistCounter  prometheus.Counter
	lastPublishedGauge     prometheus.Gauge
	prunedRecordsCounter   prometheus.Counter
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	cycleDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cycle_duration_seconds",
			Help:    "Histogram of full report cycle durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"status"},
	)

	esiClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "esi_client_latency_seconds",
			Help:    "Histogram of ESI client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	skippedPersistCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skipped_persist_count",
			Help: "Number of cycles whose history write was skipped because the upstream snapshot had not advanced",
		},
	)

	lastPublishedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_report_published_timestamp_seconds",
			Help: "Unix time of the last successfully published report",
		},
	)

	prunedRecordsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pruned_history_records_total",
			Help: "Total number of history records removed by the retention sweep",
		},
	)

	prometheus.MustRegister(
		cycleDurationHistogram,
		esiClientLatency,
		dbLatency,
		skippedPersistCounter,
		lastPublishedGauge,
		prunedRecordsCounter,
	)
}

func RecordEsiClientLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	esiClientLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func IncSkippedPersist() {
	skippedPersistCounter.Inc()
}

func RecordReportPublished(at time.Time) {
	lastPublishedGauge.Set(float64(at.Unix()))
}

func RecordPrunedRecords(count int64) {
	prunedRecordsCounter.Add(float64(count))
}
