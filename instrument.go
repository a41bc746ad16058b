package knngo

import (
	"context"
	"time"

	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/num"
)

// instrumented decorates a SearchMethod with per-query metrics. Create wraps
// the built index with it whenever a real collector is configured.
type instrumented[D num.Coord, N any] struct {
	index.SearchMethod[D, N]
	name    string
	metrics MetricsCollector
}

func (m *instrumented[D, N]) NearestNeighbor(ctx context.Context, q []D) (index.Candidate[D, N], error) {
	start := time.Now()
	c, err := m.SearchMethod.NearestNeighbor(ctx, q)
	m.metrics.RecordSearch(m.name, "nearest", 1, time.Since(start), err)
	return c, err
}

func (m *instrumented[D, N]) NearestNeighbors(ctx context.Context, q []D, k int) ([]index.Candidate[D, N], error) {
	start := time.Now()
	res, err := m.SearchMethod.NearestNeighbors(ctx, q, k)
	m.metrics.RecordSearch(m.name, "knn", k, time.Since(start), err)
	return res, err
}

func (m *instrumented[D, N]) NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]index.Candidate[D, N], error) {
	start := time.Now()
	res, err := m.SearchMethod.NeighborsInRadius(ctx, q, r, k)
	m.metrics.RecordSearch(m.name, "radius", k, time.Since(start), err)
	return res, err
}
