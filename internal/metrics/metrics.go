package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PatternComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geomark_pattern_computations_total",
		Help: "Total number of full clustering runs over the tracking table.",
	})

	PatternComputationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geomark_pattern_computation_errors_total",
		Help: "Total number of clustering runs that failed.",
	})

	ClusteringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geomark_clustering_duration_ms",
		Help:    "Wall time of one clustering run in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	EventsAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "geomark_events_analyzed",
		Help: "Number of entry events fed into the most recent clustering run.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geomark_notifications_sent_total",
		Help: "Total notification delivery attempts, labelled by channel and status.",
	}, []string{"channel", "status"})

	ScheduledSendsPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "geomark_scheduled_sends_pending",
		Help: "Number of delayed sends currently waiting in the scheduler.",
	})

	SuggestionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geomark_suggestion_requests_total",
		Help: "Total AI message-suggestion calls, labelled by outcome.",
	}, []string{"outcome"})
)
