// Package obsmetrics instruments solver-core internals with Prometheus
// vectors, adapting the teacher's pkg/middleware/metrics.go pattern from
// HTTP requests to solve runs (see DESIGN.md). The vectors are registered
// at init into a package-private registry.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "timetable_solver"

var (
	// SolveDuration tracks wall-clock solve time, labeled by final status.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Duration of a full scheduler Solve call, labeled by outcome status.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"status"},
	)

	// SolveVariables records the size of the constraint model built for a
	// solve, useful for correlating slow solves with problem size.
	SolveVariables = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_variables_total",
			Help:      "Number of decision variables in the constraint model for a solve.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
		},
		[]string{},
	)

	// SolveOutcomes counts terminal solve statuses.
	SolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_status_total",
			Help:      "Count of solve outcomes, labeled by status.",
		},
		[]string{"status"},
	)
)

// Registry is a private registry rather than the global default: this is a
// library, and a library should never mutate prometheus.DefaultRegisterer
// behind its caller's back.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(SolveDuration, SolveVariables, SolveOutcomes)
}
