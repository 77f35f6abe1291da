package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks store operation latency.
	// Labels: op
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creatived",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// OperationErrors counts failed store operations.
	// Labels: op
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creatived",
			Subsystem: "store",
			Name:      "operation_errors_total",
			Help:      "Total number of failed store operations",
		},
		[]string{"op"},
	)
)
