package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/knngo/num"
)

// Kind identifies a distance metric.
type Kind int

// Constants representing the supported distance metrics.
const (
	// KindManhattan is the L1 distance: the sum of absolute coordinate
	// differences.
	KindManhattan Kind = iota

	// KindSquaredL2 is the squared Euclidean distance. The square root is
	// never taken; caller-supplied radii are squared once by the engine.
	KindSquaredL2

	// KindChebyshev is the L-infinity distance: the maximum absolute
	// coordinate difference.
	KindChebyshev

	// KindCosine is the cosine distance 1 - cos(a, b). It is supported by
	// the KD-tree and linear indexes only.
	KindCosine
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindManhattan:
		return "Manhattan"
	case KindSquaredL2:
		return "SquaredL2"
	case KindChebyshev:
		return "Chebyshev"
	case KindCosine:
		return "Cosine"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// SquaresRadii reports whether caller-supplied radii are in unsquared units
// and must be squared before they are compared against distances.
func (k Kind) SquaresRadii() bool {
	return k == KindSquaredL2
}

// EffectiveRadius converts a caller-supplied radius into the unit the metric
// reports distances in. Squaring happens here, exactly once.
func (k Kind) EffectiveRadius(r float64) float64 {
	if k.SquaresRadii() {
		return r * r
	}
	return r
}

// Func calculates the distance between two equal-length vectors.
// Length agreement is the caller's responsibility.
type Func[D num.Coord] func(a, b []D) float64

// Provider returns the distance function for the given kind.
func Provider[D num.Coord](k Kind) (Func[D], error) {
	switch k {
	case KindManhattan:
		return Manhattan[D], nil
	case KindSquaredL2:
		return SquaredL2[D], nil
	case KindChebyshev:
		return Chebyshev[D], nil
	case KindCosine:
		return CosineDistance[D], nil
	default:
		return nil, fmt.Errorf("distance: unsupported kind %v", k)
	}
}

// Manhattan calculates the L1 distance between two vectors.
func Manhattan[D num.Coord](a, b []D) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors. The result is not rooted.
func SquaredL2[D num.Coord](a, b []D) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Chebyshev calculates the L-infinity distance between two vectors.
func Chebyshev[D num.Coord](a, b []D) float64 {
	var best float64
	for i := range a {
		if d := math.Abs(float64(a[i]) - float64(b[i])); d > best {
			best = d
		}
	}
	return best
}

// CosineDistance calculates 1 - cos(a, b) using a single square root of the
// magnitude product. A zero-magnitude operand yields 2 (the opposite-direction
// convention, 1 - (-1)); orthogonal nonzero vectors yield 1.
func CosineDistance[D num.Coord](a, b []D) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 2
	}
	if dot == 0 {
		return 1
	}
	return 1 - dot/math.Sqrt(na*nb)
}
