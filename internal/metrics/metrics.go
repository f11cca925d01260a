package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blitzadex"

// Label names
const (
	LabelEndpoint = "endpoint"
	LabelOutcome  = "outcome"
	LabelTrigger  = "trigger"
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
)

// Catalog endpoints
const (
	EndpointPlugins         = "plugins"
	EndpointChampionSummary = "champion_summary"
	EndpointChampion        = "champion"
)

// Outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeDecode   = "decode_error"
	OutcomeNetwork  = "network_error"
	OutcomeFailure  = "failure"
)

// Catalog Metrics
var (
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of requests made to the remote catalog",
		},
		[]string{LabelEndpoint, LabelOutcome},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Remote catalog request latency in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelEndpoint},
	)

	ChampionFetchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "champion_fetches_in_flight",
			Help:      "Current number of concurrent champion fetches",
		},
	)
)

// Sync Metrics
var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Total number of catalog sync runs",
		},
		[]string{LabelTrigger, LabelOutcome},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of full catalog sync runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	ChampionsCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "champions_cached",
			Help:      "Number of champions held after the last successful sync",
		},
	)

	FreshnessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freshness_checks_total",
			Help:      "Total number of freshness evaluations by result",
		},
		[]string{LabelOutcome},
	)
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)
