// Package voxel implements a uniform-grid index over a static point set.
//
// The bounding box of the input is carved into a regular d-dimensional grid
// of roughly min(N, 10^6) cells sharing one side length. Each cell holds the
// indices of the points it contains. Queries scan cells outward from the
// query's home cell in metric-shaped shells and stop as soon as no unvisited
// shell can hold a better match.
//
// Cosine distance has no grid shape and is rejected at build time.
package voxel

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/num"
	"github.com/hupe1980/knngo/queue"
)

// DefaultMaxCells caps the target cell count. The bucket table holds at most
// four times the target, which bounds its memory and rules out cell-index
// overflow for any input; it is not held to the target itself.
const DefaultMaxCells = 1_000_000

// Compile-time check to ensure Grid satisfies the SearchMethod interface.
var _ index.SearchMethod[float64, string] = (*Grid[float64, string])(nil)

// Options contains configuration options for the voxel index.
type Options struct {
	// Kind selects the distance metric. KindCosine is not supported.
	Kind distance.Kind

	// MaxCells caps the target cell count; the built grid can have up to
	// four times as many cells. Defaults to DefaultMaxCells; values above it
	// are clamped.
	MaxCells int
}

// DefaultOptions contains the default configuration options for the voxel
// index.
var DefaultOptions = Options{
	Kind:     distance.KindSquaredL2,
	MaxCells: DefaultMaxCells,
}

// Grid is a uniform-grid index.
type Grid[D num.Coord, N any] struct {
	points   [][]D
	payloads []N
	dims     int
	count    int
	kind     distance.Kind
	dist     distance.Func[D]

	minima   []float64
	side     float64
	invSide  float64
	cells    []int // cells per axis
	strides  []int // row-major cell index multipliers
	buckets  [][]int32
	occupied *bitset.BitSet // nonempty buckets, tested before touching them
	diameter int            // largest layer with an in-range cell
}

// New builds a grid over points and their payloads. Construction copies the
// coordinates; later mutation of the inputs does not affect the index.
func New[D num.Coord, N any](points [][]D, payloads []N, optFns ...func(o *Options)) (*Grid[D, N], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxCells <= 0 || opts.MaxCells > DefaultMaxCells {
		opts.MaxCells = DefaultMaxCells
	}

	if opts.Kind == distance.KindCosine {
		return nil, &index.ErrUnsupportedMetric{Kind: opts.Kind, Index: "voxel"}
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
	g := &Grid[D, N]{
		points:   index.ClonePoints(points, dims),
		payloads: make([]N, n),
		dims:     dims,
		count:    n,
		kind:     opts.Kind,
		dist:     dist,
	}
	copy(g.payloads, payloads)

	g.buildGrid(min(n, opts.MaxCells))

	return g, nil
}

// buildGrid computes the bounding box, picks the cell side length so the grid
// has about targetCells cells, and fills the buckets.
func (g *Grid[D, N]) buildGrid(targetCells int) {
	g.minima = make([]float64, g.dims)
	maxima := make([]float64, g.dims)
	for i := range g.minima {
		g.minima[i] = math.Inf(1)
		maxima[i] = math.Inf(-1)
	}
	for _, p := range g.points {
		for i, c := range p {
			v := num.ToFloat64(c)
			if v < g.minima[i] {
				g.minima[i] = v
			}
			if v > maxima[i] {
				maxima[i] = v
			}
		}
	}

	volume := 1.0
	for i := range g.minima {
		volume *= maxima[i] - g.minima[i]
	}
	g.side = math.Pow(volume/float64(targetCells), 1/float64(g.dims))
	if g.side <= 0 || math.IsNaN(g.side) {
		// Degenerate bounding box (a zero extent on some axis).
		g.side = 1
	}
	g.invSide = 1 / g.side

	g.cells = make([]int, g.dims)
	g.strides = make([]int, g.dims)
	// Anisotropic boxes can overshoot the target; grow the cell until the
	// bucket table fits. Overflow-safe: the check runs in float64.
	for {
		prod := 1.0
		for i := range g.cells {
			prod *= 1 + math.Floor((maxima[i]-g.minima[i])*g.invSide)
		}
		if prod <= float64(4*targetCells) {
			break
		}
		g.side *= 2
		g.invSide = 1 / g.side
	}

	total := 1
	for i := range g.cells {
		g.cells[i] = 1 + int((maxima[i]-g.minima[i])*g.invSide)
		g.strides[i] = total
		total *= g.cells[i]
	}

	g.buckets = make([][]int32, total)
	g.occupied = bitset.New(uint(total))
	coords := make([]int, g.dims)
	for i, p := range g.points {
		ci := g.cellIndex(g.cellCoords(p, coords))
		g.buckets[ci] = append(g.buckets[ci], int32(i))
		g.occupied.Set(uint(ci))
	}

	g.diameter = diameterLayer(g.kind, g.cells)
}

// cellCoords quantizes a point onto the grid, clamping each axis into range
// so queries outside the bounding box land on the nearest boundary cell.
func (g *Grid[D, N]) cellCoords(p []D, out []int) []int {
	for i, c := range p {
		v := int((num.ToFloat64(c) - g.minima[i]) * g.invSide)
		if v < 0 {
			v = 0
		}
		if v >= g.cells[i] {
			v = g.cells[i] - 1
		}
		out[i] = v
	}
	return out
}

func (g *Grid[D, N]) cellIndex(coords []int) int {
	ci := 0
	for i, c := range coords {
		ci += c * g.strides[i]
	}
	return ci
}

// Dimensions returns the dimensionality of the indexed points.
func (g *Grid[D, N]) Dimensions() int { return g.dims }

// Count returns the number of indexed points.
func (g *Grid[D, N]) Count() int { return g.count }

// Kind returns the index's distance metric.
func (g *Grid[D, N]) Kind() distance.Kind { return g.kind }

// All yields every (point, payload) pair in unspecified order.
func (g *Grid[D, N]) All() iter.Seq2[[]D, N] {
	return func(yield func([]D, N) bool) {
		for i, p := range g.points {
			if !yield(p, g.payloads[i]) {
				return
			}
		}
	}
}

// NearestNeighbor returns the single closest point to q.
func (g *Grid[D, N]) NearestNeighbor(ctx context.Context, q []D) (index.Candidate[D, N], error) {
	res, err := g.NearestNeighbors(ctx, q, 1)
	if err != nil {
		return index.Candidate[D, N]{}, err
	}
	return res[0], nil
}

// NearestNeighbors returns up to k points closest to q, ordered by ascending
// distance.
func (g *Grid[D, N]) NearestNeighbors(ctx context.Context, q []D, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(g.dims, q); err != nil {
		return nil, err
	}

	if k <= 0 || k > g.count {
		return g.collectAll(q), nil
	}

	list := queue.NewBounded[int32](k)
	g.scan(q, math.Inf(1), list)

	return g.collect(list), nil
}

// NeighborsInRadius returns the points within radius r of q, ordered by
// ascending distance, optionally capped at the k closest.
func (g *Grid[D, N]) NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := index.CheckQuery(g.dims, q); err != nil {
		return nil, err
	}
	if r < 0 {
		return []index.Candidate[D, N]{}, nil
	}

	if k <= 0 || k > g.count {
		k = g.count
	}
	maxR := g.kind.EffectiveRadius(r)
	list := queue.NewBounded[int32](k)

	// A radius that reaches the grid's farthest shell would visit every
	// cell; a flat scan over the point arrays is cheaper.
	if shellLowerBound(g.kind, g.dims, g.diameter, g.side) <= maxR {
		for i, p := range g.points {
			if d := g.dist(p, q); d <= maxR {
				list.Add(int32(i), d)
			}
		}
		return g.collect(list), nil
	}

	g.scan(q, maxR, list)

	return g.collect(list), nil
}

// scan walks shells outward from q's home cell, feeding every in-range
// bucket's points into the list. It stops at the first layer whose lower
// bound can no longer produce a match: past the radius cap, or, once the
// list is full, past the current worst kept distance.
func (g *Grid[D, N]) scan(q []D, maxR float64, list *queue.BoundedPriorityList[int32]) {
	home := g.cellCoords(q, make([]int, g.dims))
	cell := make([]int, g.dims)
	seen := 0

	for layer := 0; layer <= g.diameter; layer++ {
		limit := maxR
		if list.IsFull() && list.MaxPriority() < limit {
			limit = list.MaxPriority()
		}
		if shellLowerBound(g.kind, g.dims, layer, g.side) > limit {
			return
		}

		forEachShellOffset(g.kind, g.dims, layer, func(delta []int) {
			for i, d := range delta {
				c := home[i] + d
				if c < 0 || c >= g.cells[i] {
					return
				}
				cell[i] = c
			}

			ci := g.cellIndex(cell)
			if !g.occupied.Test(uint(ci)) {
				return
			}
			for _, id := range g.buckets[ci] {
				seen++
				if d := g.dist(g.points[id], q); d <= maxR {
					list.Add(id, d)
				}
			}
		})

		if seen == g.count {
			return
		}
	}
}

func (g *Grid[D, N]) collect(list *queue.BoundedPriorityList[int32]) []index.Candidate[D, N] {
	out := make([]index.Candidate[D, N], list.Len())
	for i := range out {
		id, d := list.At(i)
		out[i] = index.Candidate[D, N]{Point: g.points[id], Payload: g.payloads[id], Distance: d}
	}
	return out
}

// collectAll serves the degenerate k cases: the full data set, unordered.
func (g *Grid[D, N]) collectAll(q []D) []index.Candidate[D, N] {
	out := make([]index.Candidate[D, N], g.count)
	for i, p := range g.points {
		out[i] = index.Candidate[D, N]{Point: p, Payload: g.payloads[i], Distance: g.dist(p, q)}
	}
	return out
}

// Stats describes the grid's shape.
type Stats struct {
	Count         int
	Dimensions    int
	Cells         int
	OccupiedCells int
	MaxBucket     int
	SideLength    float64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("voxel: count=%d dims=%d cells=%d occupied=%d maxBucket=%d side=%g",
		s.Count, s.Dimensions, s.Cells, s.OccupiedCells, s.MaxBucket, s.SideLength)
}

// Stats returns statistics about the grid.
func (g *Grid[D, N]) Stats() Stats {
	maxBucket := 0
	for _, b := range g.buckets {
		if len(b) > maxBucket {
			maxBucket = len(b)
		}
	}
	return Stats{
		Count:         g.count,
		Dimensions:    g.dims,
		Cells:         len(g.buckets),
		OccupiedCells: int(g.occupied.Count()),
		MaxBucket:     maxBucket,
		SideLength:    g.side,
	}
}
