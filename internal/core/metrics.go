package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesort_datasets_loaded_total",
		Help: "The total number of datasets loaded into sessions",
	})
	rowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablesort_rows_loaded_total",
		Help: "The total number of rows resolved across all loads",
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablesort_sessions_active",
		Help: "The number of datasets currently held in memory",
	})
	sessionsEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablesort_sessions_evicted_total",
		Help: "Sessions removed from memory, by reason",
	}, []string{"reason"})
	sortActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablesort_sort_activations_total",
		Help: "Column header activations, by resulting direction",
	}, []string{"direction"})
	sortDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tablesort_sort_duration_seconds",
		Help:    "Time spent ordering rows for one sort request",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)
