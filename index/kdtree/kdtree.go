// Package kdtree implements a balanced KD-tree over a static point set.
//
// The tree is bulk-built once by recursive median splits and stored in
// level-order: two parallel arrays indexed as a complete binary heap (root 0,
// children of i at 2i+1 and 2i+2). Queries descend with an axis-aligned
// bounding rect and prune every subtree whose region cannot beat the current
// candidate set.
package kdtree

import (
	"context"
	"iter"
	"math"
	"math/bits"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/num"
	"github.com/hupe1980/knngo/queue"
)

// Compile-time check to ensure Tree satisfies the SearchMethod interface.
var _ index.SearchMethod[float64, string] = (*Tree[float64, string])(nil)

// Options contains configuration options for the KD-tree index.
type Options[D num.Coord] struct {
	// Kind selects the distance metric.
	Kind distance.Kind

	// DimensionMin and DimensionMax bound the root search region. They
	// default to the coordinate type's sentinels and only need narrowing
	// when a caller knows tighter bounds for its data.
	DimensionMin D
	DimensionMax D
}

// DefaultOptions returns the default configuration options for the KD-tree
// index.
func DefaultOptions[D num.Coord]() Options[D] {
	return Options[D]{
		Kind:         distance.KindSquaredL2,
		DimensionMin: num.MinValue[D](),
		DimensionMax: num.MaxValue[D](),
	}
}

// Tree is a balanced, immutable KD-tree index.
type Tree[D num.Coord, N any] struct {
	points   [][]D // level-order storage; nil marks an empty slot
	payloads []N
	dims     int
	count    int
	kind     distance.Kind
	dist     distance.Func[D]
	boundMin D
	boundMax D
}

// New bulk-builds a balanced tree from points and their payloads.
// Construction copies the coordinates; later mutation of the inputs does not
// affect the index.
func New[D num.Coord, N any](points [][]D, payloads []N, optFns ...func(o *Options[D])) (*Tree[D, N], error) {
	opts := DefaultOptions[D]()
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

	n := len(points)
	slots := 1 << bits.Len(uint(n)) // 2^ceil(log2(n+1))

	t := &Tree[D, N]{
		points:   make([][]D, slots),
		payloads: make([]N, slots),
		dims:     dims,
		count:    n,
		kind:     opts.Kind,
		dist:     dist,
		boundMin: opts.DimensionMin,
		boundMax: opts.DimensionMax,
	}

	pts := index.ClonePoints(points, dims)
	pls := make([]N, n)
	copy(pls, payloads)
	t.build(0, 0, pts, pls)

	return t, nil
}

// build writes the median of pts into slot at and recurses into the children.
// The median slot is filled by the first input whose axis projection equals
// the order statistic. Everything strictly below the pivot goes left;
// pivot-equal points top the left child up to its target size and spill to
// the right. The left subtree therefore holds only values <= pivot and the
// right only values >= pivot (the pruning invariant), and the split sizes
// stay balanced even when many points share a coordinate.
func (t *Tree[D, N]) build(at, axis int, pts [][]D, pls []N) {
	n := len(pts)
	switch n {
	case 0:
		return
	case 1:
		t.points[at] = pts[0]
		t.payloads[at] = pls[0]
		return
	}

	m := n / 2
	proj := make([]D, n)
	for i, p := range pts {
		proj[i] = p[axis]
	}
	pivot := nthPosition(proj, m)

	// At most m values sort strictly below the pivot (it is the m-th order
	// statistic), so reserving their left slots first keeps every spill on
	// the pivot plane.
	below := 0
	for _, p := range pts {
		if p[axis] < pivot {
			below++
		}
	}
	equalSlots := m - below

	leftPts := make([][]D, 0, m)
	leftPls := make([]N, 0, m)
	rightPts := make([][]D, 0, n-1-m)
	rightPls := make([]N, 0, n-1-m)

	medianSet := false
	for i, p := range pts {
		v := p[axis]
		toLeft := false
		switch {
		case v < pivot:
			toLeft = true
		case v == pivot:
			if !medianSet {
				t.points[at] = p
				t.payloads[at] = pls[i]
				medianSet = true
				continue
			}
			if equalSlots > 0 {
				equalSlots--
				toLeft = true
			}
		}

		if toLeft {
			leftPts = append(leftPts, p)
			leftPls = append(leftPls, pls[i])
		} else {
			rightPts = append(rightPts, p)
			rightPls = append(rightPls, pls[i])
		}
	}

	next := (axis + 1) % t.dims
	t.build(2*at+1, next, leftPts, leftPls)
	t.build(2*at+2, next, rightPts, rightPls)
}

// Dimensions returns the dimensionality of the indexed points.
func (t *Tree[D, N]) Dimensions() int { return t.dims }

// Count returns the number of indexed points.
func (t *Tree[D, N]) Count() int { return t.count }

// Kind returns the index's distance metric.
func (t *Tree[D, N]) Kind() distance.Kind { return t.kind }

// All yields every (point, payload) pair in unspecified order.
func (t *Tree[D, N]) All() iter.Seq2[[]D, N] {
	return func(yield func([]D, N) bool) {
		for i, p := range t.points {
			if p == nil {
				continue
			}
			if !yield(p, t.payloads[i]) {
				return
			}
		}
	}
}

// NearestNeighbor returns the single closest point to q.
func (t *Tree[D, N]) NearestNeighbor(ctx context.Context, q []D) (index.Candidate[D, N], error) {
	res, err := t.NearestNeighbors(ctx, q, 1)
	if err != nil {
		return index.Candidate[D, N]{}, err
	}
	return res[0], nil
}

// NearestNeighbors returns up to k points closest to q, ordered by ascending
// distance.
func (t *Tree[D, N]) NearestNeighbors(ctx context.Context, q []D, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(t.dims, q); err != nil {
		return nil, err
	}

	if k <= 0 || k > t.count {
		return t.collectAll(q), nil
	}

	list := queue.NewBounded[int](k)
	t.searchRoot(q, math.Inf(1), list)

	return t.collect(list), nil
}

// NeighborsInRadius returns the points within radius r of q, ordered by
// ascending distance, optionally capped at the k closest.
func (t *Tree[D, N]) NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(t.dims, q); err != nil {
		return nil, err
	}
	if r < 0 {
		return []index.Candidate[D, N]{}, nil
	}

	if k <= 0 || k > t.count {
		k = t.count
	}
	list := queue.NewBounded[int](k)
	t.searchRoot(q, t.kind.EffectiveRadius(r), list)

	return t.collect(list), nil
}

func (t *Tree[D, N]) searchRoot(q []D, maxR float64, list *queue.BoundedPriorityList[int]) {
	rect := InfiniteRect(t.dims, t.boundMin, t.boundMax)
	scratch := make([]D, t.dims)
	t.search(0, 0, q, &rect, scratch, maxR, list)
}

// search visits node at with the rect enclosing its subtree's region. The
// near child is always visited; the far child only when its region's lower
// bound distance clears both the radius cap and, once the list is full, the
// current worst kept distance. The rect is narrowed in place and restored
// after each descent.
func (t *Tree[D, N]) search(at, axis int, q []D, rect *HyperRect[D], scratch []D, maxR float64, list *queue.BoundedPriorityList[int]) {
	if at >= len(t.points) || t.points[at] == nil {
		return
	}

	p := t.points[at]
	pivot := p[axis]
	next := (axis + 1) % t.dims
	nearLeft := q[axis] <= pivot

	if nearLeft {
		saved := rect.Max[axis]
		rect.Max[axis] = pivot
		t.search(2*at+1, next, q, rect, scratch, maxR, list)
		rect.Max[axis] = saved
	} else {
		saved := rect.Min[axis]
		rect.Min[axis] = pivot
		t.search(2*at+2, next, q, rect, scratch, maxR, list)
		rect.Min[axis] = saved
	}

	if nearLeft {
		saved := rect.Min[axis]
		rect.Min[axis] = pivot
		bound := t.rectBound(rect, q, scratch)
		if bound <= maxR && (!list.IsFull() || bound < list.MaxPriority()) {
			t.search(2*at+2, next, q, rect, scratch, maxR, list)
		}
		rect.Min[axis] = saved
	} else {
		saved := rect.Max[axis]
		rect.Max[axis] = pivot
		bound := t.rectBound(rect, q, scratch)
		if bound <= maxR && (!list.IsFull() || bound < list.MaxPriority()) {
			t.search(2*at+1, next, q, rect, scratch, maxR, list)
		}
		rect.Max[axis] = saved
	}

	if d := t.dist(p, q); d <= maxR {
		list.Add(at, d)
	}
}

// rectBound returns a lower bound on the distance from q to any point inside
// rect. For the Minkowski metrics the closest point in the rect is exact.
// Cosine distance is not coordinate-monotone, so the rect carries no usable
// bound; zero (its global minimum) keeps the traversal correct at the price
// of visiting both children.
func (t *Tree[D, N]) rectBound(rect *HyperRect[D], q, scratch []D) float64 {
	if t.kind == distance.KindCosine {
		return 0
	}
	return t.dist(rect.ClosestTo(q, scratch), q)
}

func (t *Tree[D, N]) collect(list *queue.BoundedPriorityList[int]) []index.Candidate[D, N] {
	out := make([]index.Candidate[D, N], list.Len())
	for i := range out {
		at, d := list.At(i)
		out[i] = index.Candidate[D, N]{Point: t.points[at], Payload: t.payloads[at], Distance: d}
	}
	return out
}

// collectAll serves the degenerate k cases: the full data set, unordered.
func (t *Tree[D, N]) collectAll(q []D) []index.Candidate[D, N] {
	out := make([]index.Candidate[D, N], 0, t.count)
	for i, p := range t.points {
		if p == nil {
			continue
		}
		out = append(out, index.Candidate[D, N]{Point: p, Payload: t.payloads[i], Distance: t.dist(p, q)})
	}
	return out
}
