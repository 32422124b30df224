package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localcalendar",
			Subsystem: "store",
			Name:      "refresh_total",
			Help:      "Cache refreshes by outcome.",
		},
		[]string{"outcome"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "localcalendar",
			Subsystem: "store",
			Name:      "refresh_duration_seconds",
			Help:      "Time spent loading events from storage.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localcalendar",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Writes sent to storage by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	cachedEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "localcalendar",
			Subsystem: "store",
			Name:      "cached_events",
			Help:      "Events held by the most recently refreshed store.",
		},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
