// Package metrics provides Prometheus metrics for the keeper.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts keeper invocations by outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyth_keeper_runs_total",
			Help: "Total number of keeper runs by outcome",
		},
		[]string{"outcome"},
	)

	// ItemDecisionsTotal counts item decisions by reason.
	ItemDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyth_keeper_item_decisions_total",
			Help: "Total number of item decisions by reason",
		},
		[]string{"item", "reason"},
	)

	// FeedsScheduledTotal counts feed ids scheduled for update.
	FeedsScheduledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pyth_keeper_feeds_scheduled_total",
			Help: "Total number of feed ids scheduled for an on-chain update",
		},
	)

	// ErrorsTotal counts run failures by stage.
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyth_keeper_errors_total",
			Help: "Total number of keeper errors by stage",
		},
		[]string{"stage"},
	)

	// ConfigFetchesTotal counts oracle config loads by source.
	ConfigFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pyth_keeper_config_fetches_total",
			Help: "Total number of oracle config loads by source (cache or remote)",
		},
		[]string{"source"},
	)

	// RunDuration is a histogram of keeper run durations.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pyth_keeper_run_duration_seconds",
			Help:    "Duration of keeper runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LastRunTimestamp is the unix time of the last finished run.
	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pyth_keeper_last_run_timestamp",
			Help: "Unix timestamp of the last finished keeper run",
		},
	)

	initOnce sync.Once
)

// Init registers all metrics with the default registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			ItemDecisionsTotal,
			FeedsScheduledTotal,
			ErrorsTotal,
			ConfigFetchesTotal,
			RunDuration,
			LastRunTimestamp,
		)
	})
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a finished run.
func RecordRun(outcome string, duration time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(duration.Seconds())
	LastRunTimestamp.SetToCurrentTime()
}

// RecordDecision records the decision taken for an item.
func RecordDecision(item, reason string) {
	ItemDecisionsTotal.WithLabelValues(item, reason).Inc()
}

// RecordScheduled records feed ids scheduled for update.
func RecordScheduled(n int) {
	FeedsScheduledTotal.Add(float64(n))
}

// RecordError records a failure at the given stage.
func RecordError(stage string) {
	ErrorsTotal.WithLabelValues(stage).Inc()
}

// RecordConfigFetch records where the oracle config came from.
func RecordConfigFetch(source string) {
	ConfigFetchesTotal.WithLabelValues(source).Inc()
}
