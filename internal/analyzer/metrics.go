package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts completed analyses.
	// Labels: source (model, heuristic, default)
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creatived",
			Subsystem: "analyzer",
			Name:      "analyses_total",
			Help:      "Total number of analyses by producing path",
		},
		[]string{"source"},
	)

	// ClassificationDuration tracks model call latency, failures included.
	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "creatived",
			Subsystem: "analyzer",
			Name:      "classification_duration_seconds",
			Help:      "Duration of classification calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)
)
