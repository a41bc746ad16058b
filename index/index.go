package index

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/num"
)

// ErrEmptyInput is returned when an index is built from zero points.
var ErrEmptyInput = errors.New("index: empty input")

// ErrShapeMismatch indicates that the payload count differs from the point
// count.
type ErrShapeMismatch struct {
	Points   int
	Payloads int
}

// Error returns the error message for a shape mismatch.
func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %d points, %d payloads", e.Points, e.Payloads)
}

// ErrDimensionMismatch indicates a point or query whose dimensionality
// differs from the index's.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

// Error returns the error message for a dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid dimensionality.
type ErrInvalidDimension struct {
	Dimension int
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrUnsupportedMetric indicates a metric the index cannot serve.
type ErrUnsupportedMetric struct {
	Kind  distance.Kind
	Index string
}

// Error returns the error message for an unsupported metric.
func (e *ErrUnsupportedMetric) Error() string {
	return fmt.Sprintf("%s index does not support %s distance", e.Index, e.Kind)
}

// Candidate is a single query result: a point, its payload, and its distance
// from the query in the index's metric (squared for squared L2).
//
// The Point slice aliases index storage and must not be modified.
type Candidate[D num.Coord, N any] struct {
	Point    []D
	Payload  N
	Distance float64
}

// SearchMethod is the uniform query surface shared by all indexes.
//
// Indexes are build-once, read-many: every method is safe for concurrent use
// once construction returns. Result sequences are sorted by ascending
// distance, except for the degenerate k (<= 0 or > Count) case of
// NearestNeighbors, which returns the full data set in unspecified order.
type SearchMethod[D num.Coord, N any] interface {
	// Dimensions returns the dimensionality of the indexed points.
	Dimensions() int

	// Count returns the number of indexed points.
	Count() int

	// All iterates over every (point, payload) pair in unspecified order.
	All() iter.Seq2[[]D, N]

	// NearestNeighbor returns the single closest point to q.
	NearestNeighbor(ctx context.Context, q []D) (Candidate[D, N], error)

	// NearestNeighbors returns up to k points closest to q, ordered by
	// ascending distance. k <= 0 or k > Count degrades to returning the
	// full data set in unspecified order.
	NearestNeighbors(ctx context.Context, q []D, k int) ([]Candidate[D, N], error)

	// NeighborsInRadius returns the points within radius r of q, ordered by
	// ascending distance. For squared L2 the radius is unsquared and is
	// squared internally exactly once. k >= 1 caps the result at the k
	// closest; k <= 0 means no cap. A negative radius yields an empty
	// result.
	NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]Candidate[D, N], error)
}

// ValidateInput checks points and payloads for emptiness, shape agreement and
// uniform dimensionality, returning the shared dimension.
func ValidateInput[D num.Coord, N any](points [][]D, payloads []N) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyInput
	}
	if len(points) != len(payloads) {
		return 0, &ErrShapeMismatch{Points: len(points), Payloads: len(payloads)}
	}

	dims := len(points[0])
	if dims < 1 {
		return 0, &ErrInvalidDimension{Dimension: dims}
	}
	for _, p := range points[1:] {
		if len(p) != dims {
			return 0, &ErrDimensionMismatch{Expected: dims, Actual: len(p)}
		}
	}

	return dims, nil
}

// CheckQuery validates a query vector against the index dimensionality.
func CheckQuery[D num.Coord](dims int, q []D) error {
	if len(q) != dims {
		return &ErrDimensionMismatch{Expected: dims, Actual: len(q)}
	}
	return nil
}

// ClonePoints deep-copies points into a single backing array so that later
// caller-side mutation cannot affect the index.
func ClonePoints[D num.Coord](points [][]D, dims int) [][]D {
	backing := make([]D, len(points)*dims)
	out := make([][]D, len(points))
	for i, p := range points {
		v := backing[i*dims : (i+1)*dims : (i+1)*dims]
		copy(v, p)
		out[i] = v
	}
	return out
}
