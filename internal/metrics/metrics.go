// Package metrics exposes Prometheus metrics for the scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cronbeat/cronbeat/internal/core"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cronbeat_build_info",
			Help: "Build information for the running scheduler.",
		},
		[]string{"version", "replica_id"},
	)

	enqueueOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cronbeat_enqueue_outcomes_total",
			Help: "Enqueue attempt outcomes per schedule.",
		},
		[]string{"schedule", "outcome"},
	)

	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cronbeat_tick_duration_seconds",
			Help:    "Duration of one scheduler tick.",
			Buckets: prometheus.DefBuckets,
		},
	)

	recoveredInstants = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cronbeat_recovered_instants_total",
			Help: "Instants claimed more than one tick period after their scheduled time.",
		},
	)
)

// Init registers all metrics and records build info.
func Init(version, replicaID string) {
	prometheus.MustRegister(buildInfo, enqueueOutcomes, tickDuration, recoveredInstants)
	buildInfo.WithLabelValues(version, replicaID).Set(1)
}

// RecordOutcome counts one enqueue attempt outcome for a schedule.
func RecordOutcome(schedule string, outcome core.Outcome) {
	enqueueOutcomes.WithLabelValues(schedule, outcome.String()).Inc()
}

// RecordRecovered counts an instant that was claimed late, i.e. recovered
// by the missed-jobs window rather than fired on time.
func RecordRecovered() {
	recoveredInstants.Inc()
}

// ObserveTick records how long one tick took.
func ObserveTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}
