// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_activities_recorded_total",
		Help: "Activity records committed, by activity type",
	}, []string{"type"})

	GraphTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_graph_transitions_total",
		Help: "Committed follow/unfollow/block/unblock transitions",
	}, []string{"transition"})

	AppErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_app_errors_total",
		Help: "Errors returned to clients, by error kind",
	}, []string{"kind"})

	FeedQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_feed_query_duration_seconds",
		Help:    "Time spent assembling a feed page",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
)
