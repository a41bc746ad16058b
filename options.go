package knngo

import (
	"github.com/hupe1980/knngo/index/voxel"
	"github.com/hupe1980/knngo/num"
)

// Options contains configuration options for Create.
type Options[D num.Coord] struct {
	// IndexKind selects the index structure. Defaults to IndexKindEnsemble.
	IndexKind IndexKind

	// DimensionMin and DimensionMax bound the KD-tree's root search region.
	// They default to the coordinate type's sentinels; narrowing them is an
	// optimization, never a requirement.
	DimensionMin D
	DimensionMax D

	// MaxCells caps the voxel grid's target cell count (the built grid can
	// have up to four times as many cells). Defaults to voxel.DefaultMaxCells.
	MaxCells int

	// IncludeLinear adds the exhaustive scan to the ensemble race.
	IncludeLinear bool

	// Logger receives build summaries at Debug level. Defaults to a
	// discarding logger.
	Logger *Logger

	// Metrics receives build and search observations. Defaults to
	// NoopMetricsCollector.
	Metrics MetricsCollector
}

// DefaultOptions returns the default configuration options for Create.
func DefaultOptions[D num.Coord]() Options[D] {
	return Options[D]{
		IndexKind:    IndexKindEnsemble,
		DimensionMin: num.MinValue[D](),
		DimensionMax: num.MaxValue[D](),
		MaxCells:     voxel.DefaultMaxCells,
		Logger:       NoopLogger(),
		Metrics:      NoopMetricsCollector{},
	}
}
