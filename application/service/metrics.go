package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsFused = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aoi",
		Subsystem: "fusion",
		Name:      "events_processed_total",
		Help:      "Events that completed the fusion pipeline.",
	})
	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aoi",
		Subsystem: "fusion",
		Name:      "events_failed_total",
		Help:      "Events whose fusion attempt returned an error.",
	})
	entitiesExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aoi",
		Subsystem: "fusion",
		Name:      "entities_extracted_total",
		Help:      "Deduplicated mentions linked to events, by entity type and provenance.",
	}, []string{"type", "provenance"})
	relationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aoi",
		Subsystem: "fusion",
		Name:      "relations_unresolved_total",
		Help:      "Relation triples skipped because an endpoint had no entity in the batch.",
	})
	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aoi",
		Subsystem: "scanner",
		Name:      "pass_duration_seconds",
		Help:      "Wall time of one scanner pass over the unfused backlog.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})
	graphDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aoi",
		Subsystem: "graph",
		Name:      "query_duration_seconds",
		Help:      "Wall time of neighbourhood queries.",
		Buckets:   prometheus.DefBuckets,
	})
)
