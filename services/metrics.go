package services

import "github.com/prometheus/client_golang/prometheus"

var (
	sourceFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_source_failures_total",
			Help: "Total number of failed or timed-out source fetches.",
		},
		[]string{"source"},
	)
	sourceDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_source_duration_seconds",
			Help:    "Duration of a single source fetch.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	curatedResourcesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curated_resources_created_total",
			Help: "Total number of new curated resources added to the database.",
		},
	)
	curationSkippedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curation_skipped_total",
			Help: "Total number of candidates skipped during curation.",
		},
	)
)

func init() {
	prometheus.MustRegister(sourceFailuresCounter, sourceDurationHistogram, curatedResourcesCounter, curationSkippedCounter)
}
