// Package knngo provides exact k-nearest-neighbor and radius search over
// static point sets in metric spaces of low to moderate dimensionality.
//
// Knngo answers three query kinds against an immutable index:
//
//   - NearestNeighbor: the single closest point
//   - NearestNeighbors: the k closest points, ordered by ascending distance
//   - NeighborsInRadius: all points within a radius, optionally capped at k
//
// # Index Types
//
// Three interchangeable index structures share one query surface, plus a
// composite that races them:
//
//   - IndexKindKDTree: balanced level-order KD-tree with branch-and-bound
//     pruning; the all-rounder
//   - IndexKindVoxel: uniform grid with metric-shaped shell scans; wins on
//     dense, uniform, low-dimensional data (L1/L2/Linf only)
//   - IndexKindLinear: exhaustive scan; the baseline and correctness oracle
//   - IndexKindEnsemble: races the above; nearest-1 returns the first
//     result, k-NN and radius merge all results (default)
//
// # Distance Metrics
//
// L1 (Manhattan), squared L2 (Euclidean, never rooted), Linf (Chebyshev) and
// cosine distance. Distances returned to the caller are in the metric's
// reported unit, so squared for L2; radii passed in for L2 are unsquared and
// are squared internally exactly once.
//
// # Quick Start
//
//	points := [][]float64{{7, 2}, {5, 4}, {2, 3}, {4, 7}, {9, 6}, {8, 1}}
//	labels := []string{"A", "B", "C", "D", "E", "F"}
//
//	idx, err := knngo.Create(points, labels, knngo.L2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	best, err := idx.NearestNeighbor(ctx, []float64{9, 2})   // ((8,1), "F")
//	top3, err := idx.NearestNeighbors(ctx, []float64{9, 2}, 3)
//	near, err := idx.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
//
// Indexes are build-once, read-many: all query methods are safe for
// concurrent use.
package knngo

import (
	"fmt"
	"time"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/index/ensemble"
	"github.com/hupe1980/knngo/index/kdtree"
	"github.com/hupe1980/knngo/index/linear"
	"github.com/hupe1980/knngo/index/voxel"
	"github.com/hupe1980/knngo/num"
)

// Metric kind re-exports, named by the conventional metric labels.
const (
	// L1 is the Manhattan distance.
	L1 = distance.KindManhattan
	// L2 is the squared Euclidean distance.
	L2 = distance.KindSquaredL2
	// LInf is the Chebyshev distance.
	LInf = distance.KindChebyshev
	// Cosine is the cosine distance (KD-tree and linear indexes only).
	Cosine = distance.KindCosine
)

// SearchMethod is the uniform query surface shared by all indexes.
type SearchMethod[D num.Coord, N any] = index.SearchMethod[D, N]

// Candidate is a single query result.
type Candidate[D num.Coord, N any] = index.Candidate[D, N]

// IndexKind selects the index structure Create builds.
type IndexKind int

// Constants representing the available index structures.
const (
	// IndexKindEnsemble races a KD-tree and a voxel grid (and optionally a
	// linear scan, which replaces the grid for cosine). Nearest-1 returns the
	// first result; k-NN and radius merge the results of all sub-indexes.
	IndexKindEnsemble IndexKind = iota
	// IndexKindKDTree is a balanced level-order KD-tree.
	IndexKindKDTree
	// IndexKindVoxel is a uniform grid with shell scans.
	IndexKindVoxel
	// IndexKindLinear is an exhaustive scan.
	IndexKindLinear
)

// String returns a string representation of the IndexKind.
func (k IndexKind) String() string {
	switch k {
	case IndexKindEnsemble:
		return "Ensemble"
	case IndexKindKDTree:
		return "KDTree"
	case IndexKindVoxel:
		return "Voxel"
	case IndexKindLinear:
		return "Linear"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Create builds a read-only index over points and their payloads. Points
// must share one dimensionality d >= 1 and payloads must match the points
// one-to-one. The inputs are copied; later mutation does not affect the
// index.
func Create[D num.Coord, N any](points [][]D, payloads []N, kind distance.Kind, optFns ...func(o *Options[D])) (SearchMethod[D, N], error) {
	opts := DefaultOptions[D]()
	for _, fn := range optFns {
		fn(&opts)
	}

	start := time.Now()
	method, err := build(points, payloads, kind, opts)
	opts.Metrics.RecordBuild(opts.IndexKind.String(), len(points), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("index built",
		"index", opts.IndexKind.String(),
		"metric", kind.String(),
		"count", method.Count(),
		"dims", method.Dimensions(),
		"duration", time.Since(start),
	)

	if _, noop := opts.Metrics.(NoopMetricsCollector); !noop {
		method = &instrumented[D, N]{
			SearchMethod: method,
			name:         opts.IndexKind.String(),
			metrics:      opts.Metrics,
		}
	}

	return method, nil
}

func build[D num.Coord, N any](points [][]D, payloads []N, kind distance.Kind, opts Options[D]) (SearchMethod[D, N], error) {
	newTree := func() (SearchMethod[D, N], error) {
		return kdtree.New(points, payloads, func(o *kdtree.Options[D]) {
			o.Kind = kind
			o.DimensionMin = opts.DimensionMin
			o.DimensionMax = opts.DimensionMax
		})
	}
	newGrid := func() (SearchMethod[D, N], error) {
		return voxel.New(points, payloads, func(o *voxel.Options) {
			o.Kind = kind
			o.MaxCells = opts.MaxCells
		})
	}
	newScan := func() (SearchMethod[D, N], error) {
		return linear.New(points, payloads, func(o *linear.Options) {
			o.Kind = kind
		})
	}

	switch opts.IndexKind {
	case IndexKindKDTree:
		return newTree()
	case IndexKindVoxel:
		return newGrid()
	case IndexKindLinear:
		return newScan()
	case IndexKindEnsemble:
		tree, err := newTree()
		if err != nil {
			return nil, err
		}
		methods := []SearchMethod[D, N]{tree}

		if kind != distance.KindCosine {
			grid, err := newGrid()
			if err != nil {
				return nil, err
			}
			methods = append(methods, grid)
		}

		// Cosine has no voxel backend; the linear scan keeps the race a race.
		if opts.IncludeLinear || kind == distance.KindCosine {
			scan, err := newScan()
			if err != nil {
				return nil, err
			}
			methods = append(methods, scan)
		}

		return ensemble.New(methods...)
	default:
		return nil, fmt.Errorf("knngo: unknown index kind %v", opts.IndexKind)
	}
}
