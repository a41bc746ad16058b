// Package num defines the coordinate types supported by knngo and helpers
// around their type-level bounds.
//
// Coordinates are generic over a closed set of numeric types. Distances and
// priorities are always float64: for integer coordinates every distance the
// engine computes is integer-valued and exact in float64 up to 2^53.
package num

import "math"

// Coord is the set of coordinate types an index can be built over.
//
// The constraint intentionally lists exact types rather than underlying
// types (~): MinValue, MaxValue and Bits select behavior by the concrete
// type and would silently misbehave for named types.
type Coord interface {
	int32 | int64 | float32 | float64
}

// MinValue returns the smallest representable value of D: negative infinity
// for floating-point coordinates, math.MinInt32/math.MinInt64 for integers.
func MinValue[D Coord]() D {
	var zero D
	switch any(zero).(type) {
	case float32, float64:
		return D(math.Inf(-1))
	case int32:
		return D(math.MinInt32)
	default:
		var v int64 = math.MinInt64
		return D(v)
	}
}

// MaxValue returns the largest representable value of D: positive infinity
// for floating-point coordinates, math.MaxInt32/math.MaxInt64 for integers.
func MaxValue[D Coord]() D {
	var zero D
	switch any(zero).(type) {
	case float32, float64:
		return D(math.Inf(1))
	case int32:
		return D(math.MaxInt32)
	default:
		var v int64 = math.MaxInt64
		return D(v)
	}
}

// ToFloat64 converts a coordinate to float64.
func ToFloat64[D Coord](v D) float64 {
	return float64(v)
}

// Bits returns a lossless 64-bit image of v, suitable as a hash input.
// Distinct values of the same type map to distinct images. NaN coordinates
// are not supported by the engine.
func Bits[D Coord](v D) uint64 {
	switch x := any(v).(type) {
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	case int32:
		return uint64(uint32(x))
	default:
		return uint64(any(v).(int64))
	}
}
