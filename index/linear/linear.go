// Package linear implements the exhaustive-scan baseline index.
//
// Every query walks the full point set through the same bounded priority
// list the other indexes use. It is the slowest index and the simplest, which
// makes it the correctness oracle the test suites compare against.
package linear

import (
	"context"
	"iter"
	"math"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/num"
	"github.com/hupe1980/knngo/queue"
)

// Compile-time check to ensure Scan satisfies the SearchMethod interface.
var _ index.SearchMethod[float64, string] = (*Scan[float64, string])(nil)

// Options contains configuration options for the linear index.
type Options struct {
	// Kind selects the distance metric.
	Kind distance.Kind
}

// DefaultOptions contains the default configuration options for the linear
// index.
var DefaultOptions = Options{
	Kind: distance.KindSquaredL2,
}

// Scan is an exhaustive-scan index.
type Scan[D num.Coord, N any] struct {
	points   [][]D
	payloads []N
	dims     int
	kind     distance.Kind
	dist     distance.Func[D]
}

// New builds a linear index from points and their payloads. Construction
// copies the coordinates; later mutation of the inputs does not affect the
// index.
func New[D num.Coord, N any](points [][]D, payloads []N, optFns ...func(o *Options)) (*Scan[D, N], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	dims, err := index.ValidateInput(points, payloads)
	if err != nil {
		return nil, err
	}

	dist, err := distance.Provider[D](opts.Kind)
	if err != nil {
		return nil, err
	}

	s := &Scan[D, N]{
		points:   index.ClonePoints(points, dims),
		payloads: make([]N, len(payloads)),
		dims:     dims,
		kind:     opts.Kind,
		dist:     dist,
	}
	copy(s.payloads, payloads)

	return s, nil
}

// Dimensions returns the dimensionality of the indexed points.
func (s *Scan[D, N]) Dimensions() int { return s.dims }

// Count returns the number of indexed points.
func (s *Scan[D, N]) Count() int { return len(s.points) }

// Kind returns the index's distance metric.
func (s *Scan[D, N]) Kind() distance.Kind { return s.kind }

// All yields every (point, payload) pair in insertion order.
func (s *Scan[D, N]) All() iter.Seq2[[]D, N] {
	return func(yield func([]D, N) bool) {
		for i, p := range s.points {
			if !yield(p, s.payloads[i]) {
				return
			}
		}
	}
}

// NearestNeighbor returns the single closest point to q.
func (s *Scan[D, N]) NearestNeighbor(ctx context.Context, q []D) (index.Candidate[D, N], error) {
	res, err := s.NearestNeighbors(ctx, q, 1)
	if err != nil {
		return index.Candidate[D, N]{}, err
	}
	return res[0], nil
}

// NearestNeighbors returns up to k points closest to q, ordered by ascending
// distance.
func (s *Scan[D, N]) NearestNeighbors(ctx context.Context, q []D, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(s.dims, q); err != nil {
		return nil, err
	}

	if k <= 0 || k > len(s.points) {
		return s.collectAll(q), nil
	}

	return s.scan(q, math.Inf(1), k), nil
}

// NeighborsInRadius returns the points within radius r of q, ordered by
// ascending distance, optionally capped at the k closest.
func (s *Scan[D, N]) NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(s.dims, q); err != nil {
		return nil, err
	}
	if r < 0 {
		return []index.Candidate[D, N]{}, nil
	}

	if k <= 0 || k > len(s.points) {
		k = len(s.points)
	}

	return s.scan(q, s.kind.EffectiveRadius(r), k), nil
}

func (s *Scan[D, N]) scan(q []D, maxR float64, k int) []index.Candidate[D, N] {
	list := queue.NewBounded[int](k)
	for i, p := range s.points {
		if d := s.dist(p, q); d <= maxR {
			list.Add(i, d)
		}
	}

	out := make([]index.Candidate[D, N], list.Len())
	for i := range out {
		id, d := list.At(i)
		out[i] = index.Candidate[D, N]{Point: s.points[id], Payload: s.payloads[id], Distance: d}
	}
	return out
}

// collectAll serves the degenerate k cases: the full data set, unordered.
func (s *Scan[D, N]) collectAll(q []D) []index.Candidate[D, N] {
	out := make([]index.Candidate[D, N], len(s.points))
	for i, p := range s.points {
		out[i] = index.Candidate[D, N]{Point: p, Payload: s.payloads[i], Distance: s.dist(p, q)}
	}
	return out
}
