package knngo

import "github.com/hupe1980/knngo/index"

// The index package owns the error surface; the root package re-exports it
// so most callers never import a subpackage.
var (
	// ErrEmptyInput is returned when an index is built from zero points.
	ErrEmptyInput = index.ErrEmptyInput
)

// ErrShapeMismatch indicates that the payload count differs from the point
// count.
type ErrShapeMismatch = index.ErrShapeMismatch

// ErrDimensionMismatch indicates a point or query whose dimensionality
// differs from the index's.
type ErrDimensionMismatch = index.ErrDimensionMismatch

// ErrInvalidDimension indicates an invalid dimensionality.
type ErrInvalidDimension = index.ErrInvalidDimension

// ErrUnsupportedMetric indicates a metric the index cannot serve, such as
// cosine distance on the voxel grid.
type ErrUnsupportedMetric = index.ErrUnsupportedMetric
