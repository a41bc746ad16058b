package knngo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; a
// Prometheus-backed implementation lives in the telemetry package.
type MetricsCollector interface {
	// RecordBuild is called once per index construction. points is the
	// input size, duration the build time, err nil on success.
	RecordBuild(indexName string, points int, duration time.Duration, err error)

	// RecordSearch is called after each query. query is one of "nearest",
	// "knn" or "radius"; k is the requested result cap (1 for nearest).
	RecordSearch(indexName, query string, k int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(string, int, time.Duration, error) {}

func (NoopMetricsCollector) RecordSearch(string, string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (c *BasicMetricsCollector) RecordBuild(_ string, _ int, duration time.Duration, err error) {
	c.BuildCount.Add(1)
	c.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.BuildErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (c *BasicMetricsCollector) RecordSearch(_, _ string, _ int, duration time.Duration, err error) {
	c.SearchCount.Add(1)
	c.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.SearchErrors.Add(1)
	}
}
