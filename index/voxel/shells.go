package voxel

import (
	"math"

	"github.com/hupe1980/knngo/distance"
)

// Shell enumeration: cells are scanned outward from the query's home cell in
// concentric shells whose shape matches the metric. A shell is the set of
// integer offset vectors delta with
//
//	Manhattan:  sum |delta_i|  == layer   (diamond)
//	Chebyshev:  max |delta_i|  == layer   (square)
//	SquaredL2:  sum delta_i^2  == layer   (integer-radius sphere; many layers
//	                                       are empty)
//
// Every enumerator emits sign variants by toggling each nonzero component
// independently, so each in-range cell is produced exactly once across all
// layers.

// forEachShellOffset calls fn with every offset vector of the given layer.
// The slice passed to fn is reused between calls and must not be retained.
func forEachShellOffset(kind distance.Kind, dims, layer int, fn func(delta []int)) {
	switch kind {
	case distance.KindManhattan:
		manhattanShell(dims, layer, fn)
	case distance.KindChebyshev:
		chebyshevShell(dims, layer, fn)
	default:
		euclideanShell(dims, layer, fn)
	}
}

func manhattanShell(dims, layer int, fn func(delta []int)) {
	delta := make([]int, dims)

	var rec func(axis, remaining int)
	rec = func(axis, remaining int) {
		if axis == dims-1 {
			delta[axis] = remaining
			fn(delta)
			if remaining != 0 {
				delta[axis] = -remaining
				fn(delta)
			}
			delta[axis] = 0
			return
		}
		for v := 0; v <= remaining; v++ {
			delta[axis] = v
			rec(axis+1, remaining-v)
			if v != 0 {
				delta[axis] = -v
				rec(axis+1, remaining-v)
			}
			delta[axis] = 0
		}
	}
	rec(0, layer)
}

func chebyshevShell(dims, layer int, fn func(delta []int)) {
	delta := make([]int, dims)
	if layer == 0 {
		fn(delta)
		return
	}

	var rec func(axis int, saturated bool)
	rec = func(axis int, saturated bool) {
		if axis == dims {
			fn(delta)
			return
		}
		if axis == dims-1 && !saturated {
			// Some component must reach the layer; only the extremes remain.
			delta[axis] = layer
			fn(delta)
			delta[axis] = -layer
			fn(delta)
			delta[axis] = 0
			return
		}
		for v := -layer; v <= layer; v++ {
			delta[axis] = v
			rec(axis+1, saturated || v == layer || v == -layer)
		}
		delta[axis] = 0
	}
	rec(0, false)
}

func euclideanShell(dims, layer int, fn func(delta []int)) {
	delta := make([]int, dims)

	var rec func(axis, remaining int)
	rec = func(axis, remaining int) {
		if axis == dims-1 {
			r := isqrt(remaining)
			if r*r != remaining {
				return
			}
			delta[axis] = r
			fn(delta)
			if r != 0 {
				delta[axis] = -r
				fn(delta)
			}
			delta[axis] = 0
			return
		}
		for v := 0; v*v <= remaining; v++ {
			delta[axis] = v
			rec(axis+1, remaining-v*v)
			if v != 0 {
				delta[axis] = -v
				rec(axis+1, remaining-v*v)
			}
			delta[axis] = 0
		}
	}
	rec(0, layer)
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// shellLowerBound returns the smallest distance (in the metric's reported
// unit, squared for squared L2) that any point inside a cell on the given
// layer can have from a query inside its home cell. The bound grows
// monotonically with the layer, which makes it the scan's stopping rule.
func shellLowerBound(kind distance.Kind, dims, layer int, side float64) float64 {
	switch kind {
	case distance.KindManhattan:
		if layer <= dims {
			return 0
		}
		return float64(layer-dims) * side
	case distance.KindChebyshev:
		if layer <= 1 {
			return 0
		}
		return float64(layer-1) * side
	default: // squared L2
		d := math.Sqrt(float64(layer)) - math.Sqrt(float64(dims))
		if d <= 0 {
			return 0
		}
		return d * d * side * side
	}
}

// diameterLayer returns the largest layer on which an in-range cell can
// exist, given the per-axis cell counts.
func diameterLayer(kind distance.Kind, cells []int) int {
	switch kind {
	case distance.KindManhattan:
		sum := 0
		for _, c := range cells {
			sum += c - 1
		}
		return sum
	case distance.KindChebyshev:
		best := 0
		for _, c := range cells {
			if c-1 > best {
				best = c - 1
			}
		}
		return best
	default: // squared L2
		sum := 0
		for _, c := range cells {
			sum += (c - 1) * (c - 1)
		}
		return sum
	}
}
