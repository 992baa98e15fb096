package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Scheduling metrics
	TransitionsTotal    *prometheus.CounterVec
	CascadeFailures     prometheus.Counter
	MalformedRecords    prometheus.Counter
	SlotGridLatency     prometheus.Histogram
	SlotGridCacheHits   prometheus.Counter
	SlotGridCacheMisses prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Total number of appointment status transition attempts",
		}, []string{"to_status", "outcome"}),
		CascadeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clinical_cascade_failures_total",
			Help:      "Total number of aborted ATENDIDO commits due to record/consultation failures",
		}),
		MalformedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_appointment_records_total",
			Help:      "Total number of stored appointment rows skipped because they could not be parsed",
		}),
		SlotGridLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slot_grid_generation_duration_seconds",
			Help:      "Time spent generating day slot grids",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		SlotGridCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_grid_cache_hits_total",
			Help:      "Total number of slot grid reads served from cache",
		}),
		SlotGridCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_grid_cache_misses_total",
			Help:      "Total number of slot grid reads that required regeneration",
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}
