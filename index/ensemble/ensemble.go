// Package ensemble implements a composite index that races its sub-indexes.
//
// The KD-tree and the voxel grid have very different cost profiles; racing
// them bounds worst-case query latency at the price of redundant work. For
// nearest-1 the first sub-index to finish wins outright. For k-NN and radius
// queries every sub-index runs to completion and their outputs are merged in
// completion order, deduplicated by coordinate identity, so a caller sees
// each point once.
package ensemble

import (
	"context"
	"encoding/binary"
	"fmt"
	"iter"
	"slices"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/num"
)

// Compile-time check to ensure Ensemble satisfies the SearchMethod interface.
var _ index.SearchMethod[float64, string] = (*Ensemble[float64, string])(nil)

// Ensemble races a set of sub-indexes built over the same data.
type Ensemble[D num.Coord, N any] struct {
	methods []index.SearchMethod[D, N]
}

// New creates an ensemble over the given sub-indexes. All sub-indexes must
// be built from the same point set.
func New[D num.Coord, N any](methods ...index.SearchMethod[D, N]) (*Ensemble[D, N], error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("ensemble: no sub-indexes")
	}

	dims, count := methods[0].Dimensions(), methods[0].Count()
	for _, m := range methods[1:] {
		if m.Dimensions() != dims {
			return nil, &index.ErrDimensionMismatch{Expected: dims, Actual: m.Dimensions()}
		}
		if m.Count() != count {
			return nil, &index.ErrShapeMismatch{Points: count, Payloads: m.Count()}
		}
	}

	return &Ensemble[D, N]{methods: methods}, nil
}

// Size returns the number of sub-indexes.
func (e *Ensemble[D, N]) Size() int { return len(e.methods) }

// Dimensions returns the dimensionality of the indexed points.
func (e *Ensemble[D, N]) Dimensions() int { return e.methods[0].Dimensions() }

// Count returns the number of indexed points.
func (e *Ensemble[D, N]) Count() int { return e.methods[0].Count() }

// All yields every (point, payload) pair from the first sub-index.
func (e *Ensemble[D, N]) All() iter.Seq2[[]D, N] {
	return e.methods[0].All()
}

// NearestNeighbor races all sub-indexes and returns the first result.
// The losers run to completion and are discarded.
func (e *Ensemble[D, N]) NearestNeighbor(ctx context.Context, q []D) (index.Candidate[D, N], error) {
	type answer struct {
		c   index.Candidate[D, N]
		err error
	}

	// Buffered so abandoned sub-indexes never block.
	ch := make(chan answer, len(e.methods))
	for _, m := range e.methods {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- answer{err: fmt.Errorf("ensemble: sub-index panic: %v", r)}
				}
			}()
			c, err := m.NearestNeighbor(ctx, q)
			ch <- answer{c: c, err: err}
		}()
	}

	var firstErr error
	for range e.methods {
		a := <-ch
		if a.err == nil {
			return a.c, nil
		}
		if firstErr == nil {
			firstErr = a.err
		}
	}

	return index.Candidate[D, N]{}, firstErr
}

// NearestNeighbors runs all sub-indexes to completion and merges their
// results in completion order, deduplicated by coordinate identity and capped
// at k (for non-degenerate k).
func (e *Ensemble[D, N]) NearestNeighbors(ctx context.Context, q []D, k int) ([]index.Candidate[D, N], error) {
	limit := k
	if k <= 0 || k > e.Count() {
		limit = e.Count()
	}
	return e.merge(ctx, limit, func(m index.SearchMethod[D, N]) ([]index.Candidate[D, N], error) {
		return m.NearestNeighbors(ctx, q, k)
	})
}

// NeighborsInRadius runs all sub-indexes to completion and merges their
// results in completion order, deduplicated by coordinate identity.
func (e *Ensemble[D, N]) NeighborsInRadius(ctx context.Context, q []D, r float64, k int) ([]index.Candidate[D, N], error) {
	limit := k
	if k <= 0 {
		limit = e.Count()
	}
	return e.merge(ctx, limit, func(m index.SearchMethod[D, N]) ([]index.Candidate[D, N], error) {
		return m.NeighborsInRadius(ctx, q, r, k)
	})
}

// merge fans run out over the sub-indexes and folds their outputs together
// as each completes. A failing sub-index is swallowed as long as at least one
// succeeds.
func (e *Ensemble[D, N]) merge(ctx context.Context, limit int, run func(m index.SearchMethod[D, N]) ([]index.Candidate[D, N], error)) ([]index.Candidate[D, N], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(chan []index.Candidate[D, N], len(e.methods))
	errs := make([]error, len(e.methods))

	g := new(errgroup.Group)
	for i, m := range e.methods {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("ensemble: sub-index panic: %v", r)
				}
			}()
			out, err := run(m)
			if err != nil {
				errs[i] = err
				return nil
			}
			results <- out
			return nil
		})
	}

	go func() {
		g.Wait() //nolint:errcheck // workers never return errors
		close(results)
	}()

	dedup := newDeduper[D](e.Dimensions())
	merged := make([]index.Candidate[D, N], 0, limit)
	succeeded := false
	for out := range results {
		succeeded = true
		for _, c := range out {
			if len(merged) >= limit {
				break
			}
			if dedup.seen(c.Point) {
				continue
			}
			merged = append(merged, c)
		}
	}

	if !succeeded {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}

// deduper suppresses duplicate points by coordinate identity: an xxhash over
// the coordinates' bit images, with hash collisions resolved by coordinate
// comparison. NaN coordinates are not supported.
type deduper[D num.Coord] struct {
	buckets map[uint64][][]D
	buf     []byte
}

func newDeduper[D num.Coord](dims int) *deduper[D] {
	return &deduper[D]{
		buckets: make(map[uint64][][]D),
		buf:     make([]byte, 0, 8*dims),
	}
}

// seen records p and reports whether an equal point was recorded before.
func (d *deduper[D]) seen(p []D) bool {
	d.buf = d.buf[:0]
	for _, c := range p {
		d.buf = binary.LittleEndian.AppendUint64(d.buf, num.Bits(c))
	}
	h := xxhash.Sum64(d.buf)

	for _, q := range d.buckets[h] {
		if slices.Equal(q, p) {
			return true
		}
	}
	d.buckets[h] = append(d.buckets[h], p)

	return false
}
