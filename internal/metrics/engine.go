package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine and DSL Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"driver", "op", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchbridge",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"driver", "op"},
	)

	CompileErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "dsl_compile_errors_total",
			Help:      "Total DSL compilation failures by kind",
		},
		[]string{"kind"},
	)

	BulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "bulk_items_total",
			Help:      "Bulk items sent, by action and outcome",
		},
		[]string{"action", "result"}, // "index"/"delete", "ok"/"rejected"
	)

	SortWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "searchbridge",
			Name:      "sort_warnings_total",
			Help:      "Sort directives dropped during query assembly",
		},
	)
)

var registerEngine sync.Once

// RegisterEngineMetrics registers the engine and DSL metrics. Safe to call more than once.
func RegisterEngineMetrics() {
	registerEngine.Do(func() {
		prometheus.MustRegister(
			EngineRequestsTotal,
			EngineRequestDuration,
			CompileErrorsTotal,
			BulkItemsTotal,
			SortWarningsTotal,
		)
	})
}
