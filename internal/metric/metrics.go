// README: Prometheus collectors shared by the rating engine, distance lookups, and HTTP layer.
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// outcome: ok, or the error kind (input_invalid, no_applicable_tier, ...)
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rateline",
		Subsystem: "rating",
		Name:      "quotes_total",
		Help:      "Rating calls by product and outcome",
	}, []string{"product", "outcome"})

	QuoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rateline",
		Subsystem: "rating",
		Name:      "quote_duration_seconds",
		Help:      "Time spent producing a quote, distance lookups included",
		Buckets:   prometheus.DefBuckets,
	}, []string{"product"})

	DistanceLookupSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rateline",
		Subsystem: "distance",
		Name:      "lookup_duration_seconds",
		Help:      "Road distance lookups",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"}) // ok / unavailable

	DistanceCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rateline",
		Subsystem: "distance",
		Name:      "cache_total",
		Help:      "Distance cache lookups",
	}, []string{"result"}) // hit / miss / error

	RuleIssues = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rateline",
		Subsystem: "rules",
		Name:      "validation_issues",
		Help:      "Issues found in the last loaded rule snapshot",
	})

	RequestMetrics = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "rateline",
		Subsystem:  "http",
		Name:       "request",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
)

func ObserveRequest(t time.Duration, status int) {
	RequestMetrics.WithLabelValues(strconv.Itoa(status)).Observe(t.Seconds())
}

func ObserveDistanceLookup(t time.Duration, status string) {
	DistanceLookupSeconds.WithLabelValues(status).Observe(t.Seconds())
}

func ObserveQuote(product, outcome string, t time.Duration) {
	QuotesTotal.WithLabelValues(product, outcome).Inc()
	QuoteDuration.WithLabelValues(product).Observe(t.Seconds())
}
