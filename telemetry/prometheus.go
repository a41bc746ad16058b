// Package telemetry provides a Prometheus-backed MetricsCollector.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/knngo"
)

// Compile-time check to ensure PrometheusCollector satisfies the interface.
var _ knngo.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector exports build and search observations as Prometheus
// metrics.
type PrometheusCollector struct {
	builds         *prometheus.CounterVec
	buildDuration  *prometheus.HistogramVec
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
}

// NewPrometheusCollector registers the knngo metrics on reg and returns the
// collector. Pass prometheus.DefaultRegisterer for the default registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)

	return &PrometheusCollector{
		builds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "knngo_index_builds_total",
				Help: "Total number of index builds",
			},
			[]string{"index", "status"},
		),
		buildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "knngo_index_build_duration_seconds",
				Help:    "Duration of index builds in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"index"},
		),
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "knngo_searches_total",
				Help: "Total number of search queries",
			},
			[]string{"index", "query", "status"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "knngo_search_duration_seconds",
				Help:    "Duration of search queries in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
			[]string{"index", "query"},
		),
	}
}

// RecordBuild implements knngo.MetricsCollector.
func (c *PrometheusCollector) RecordBuild(indexName string, _ int, duration time.Duration, err error) {
	c.builds.WithLabelValues(indexName, status(err)).Inc()
	if err == nil {
		c.buildDuration.WithLabelValues(indexName).Observe(duration.Seconds())
	}
}

// RecordSearch implements knngo.MetricsCollector.
func (c *PrometheusCollector) RecordSearch(indexName, query string, _ int, duration time.Duration, err error) {
	c.searches.WithLabelValues(indexName, query, status(err)).Inc()
	if err == nil {
		c.searchDuration.WithLabelValues(indexName, query).Observe(duration.Seconds())
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
