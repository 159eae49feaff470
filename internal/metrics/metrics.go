package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globetrotter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "globetrotter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "globetrotter_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	// AnswersChecked counts guesses by outcome ("correct" or "incorrect")
	AnswersChecked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globetrotter_answers_checked_total",
			Help: "Total number of answers checked",
		},
		[]string{"result"},
	)

	ChallengesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globetrotter_challenges_created_total",
			Help: "Total number of challenges created",
		},
	)

	ChallengesResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globetrotter_challenges_resolved_total",
			Help: "Total number of challenge links opened",
		},
	)

	// CacheHits counts destination cache hits per cache layer
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globetrotter_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globetrotter_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	LeaderboardSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "globetrotter_leaderboard_subscribers",
			Help: "Number of open live leaderboard connections",
		},
	)

	// StoreOperationDuration measures store calls made outside the request path
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "globetrotter_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "store"},
	)
)

// CacheObserver feeds destination cache hits and misses into the counters.
type CacheObserver struct{}

func (CacheObserver) Hit(cache string)  { CacheHits.WithLabelValues(cache).Inc() }
func (CacheObserver) Miss(cache string) { CacheMisses.WithLabelValues(cache).Inc() }

// RecordStoreOperation records the duration of a store operation
func RecordStoreOperation(operation, store string, startTime time.Time) {
	StoreOperationDuration.WithLabelValues(operation, store).Observe(time.Since(startTime).Seconds())
}

// RecordAnswer counts one checked answer.
func RecordAnswer(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	AnswersChecked.WithLabelValues(result).Inc()
}
