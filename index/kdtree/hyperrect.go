package kdtree

import "github.com/hupe1980/knngo/num"

// HyperRect is an axis-aligned box in d dimensions with Min[i] <= Max[i].
// During traversal it tracks the region of space a subtree's points can
// occupy; the distance from the query to its closest contained point is the
// subtree's pruning bound.
type HyperRect[D num.Coord] struct {
	Min []D
	Max []D
}

// InfiniteRect returns a rect spanning [min, max] on every axis. The bounds
// default to the coordinate type's sentinels (num.MinValue/num.MaxValue) but
// can be narrowed by the caller.
func InfiniteRect[D num.Coord](dims int, min, max D) HyperRect[D] {
	r := HyperRect[D]{Min: make([]D, dims), Max: make([]D, dims)}
	for i := 0; i < dims; i++ {
		r.Min[i] = min
		r.Max[i] = max
	}
	return r
}

// Clone returns an independent copy of r.
func (r HyperRect[D]) Clone() HyperRect[D] {
	c := HyperRect[D]{Min: make([]D, len(r.Min)), Max: make([]D, len(r.Max))}
	copy(c.Min, r.Min)
	copy(c.Max, r.Max)
	return c
}

// Split produces the two halves of r at pivot on axis: the left half has
// Max[axis] = pivot, the right half has Min[axis] = pivot. Both halves
// include the pivot plane.
func (r HyperRect[D]) Split(axis int, pivot D) (left, right HyperRect[D]) {
	left = r.Clone()
	right = r.Clone()
	left.Max[axis] = pivot
	right.Min[axis] = pivot
	return left, right
}

// ClosestTo writes into dst the point of r closest to q and returns it.
// Each coordinate of q is clamped into [Min[i], Max[i]]; if q lies inside r
// the result equals q. dst must have the rect's dimensionality.
func (r HyperRect[D]) ClosestTo(q, dst []D) []D {
	for i, v := range q {
		switch {
		case v < r.Min[i]:
			dst[i] = r.Min[i]
		case v > r.Max[i]:
			dst[i] = r.Max[i]
		default:
			dst[i] = v
		}
	}
	return dst
}
