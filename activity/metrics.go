package activity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "secondbrain",
			Subsystem: "activity",
			Name:      "recorded_total",
			Help:      "Activity entries accepted for background delivery.",
		},
		[]string{"action"},
	)

	droppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "secondbrain",
			Subsystem: "activity",
			Name:      "dropped_total",
			Help:      "Activity entries given up on, by stage (submit or write).",
		},
		[]string{"stage"},
	)
)
