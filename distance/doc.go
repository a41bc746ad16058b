// Package distance provides the distance metrics used by the knngo indexes.
//
// # Supported Metrics
//
//   - KindManhattan: L1 distance (sum of absolute differences)
//   - KindSquaredL2: squared Euclidean distance (default; never rooted)
//   - KindChebyshev: L-infinity distance (maximum absolute difference)
//   - KindCosine: cosine distance 1 - cos(a, b)
//
// # Squared-L2 Convention
//
// SquaredL2 returns the squared distance and the engine never takes the
// square root. Radii accepted from callers for squared L2 are in unsquared
// units and are squared internally exactly once, via Kind.EffectiveRadius.
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	fn, err := distance.Provider[float64](distance.KindManhattan)
package distance
