package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
)

var (
	initOnce sync.Once

	aggregationsCounter *prometheus.CounterVec
	fetchesCounter      *prometheus.CounterVec
	fetchDurationMetric *prometheus.HistogramVec
	aggregatedItems     prometheus.Histogram
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		aggregationsCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cost_report_aggregations_total",
				Help: "Total number of report aggregations by grouping dimension.",
			},
			[]string{"group_by"},
		)

		fetchesCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cost_report_fetches_total",
				Help: "Total number of report fetches by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		fetchDurationMetric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cost_report_fetch_duration_seconds",
				Help:    "Duration of report source calls in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)

		aggregatedItems = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cost_report_aggregated_items",
				Help:    "Number of items produced per aggregation.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
		)

		prometheus.MustRegister(
			aggregationsCounter,
			fetchesCounter,
			fetchDurationMetric,
			aggregatedItems,
		)
	})
}

func ObserveAggregation(groupBy string, items int) {
	Init()
	aggregationsCounter.WithLabelValues(groupBy).Inc()
	aggregatedItems.Observe(float64(items))
}

func IncFetch(source, outcome string) {
	Init()
	fetchesCounter.WithLabelValues(source, outcome).Inc()
}

func ObserveFetchDuration(source string, d time.Duration) {
	Init()
	fetchDurationMetric.WithLabelValues(source).Observe(d.Seconds())
}
