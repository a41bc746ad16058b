package ensemble

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/knngo/distance"
	"github.com/hupe1980/knngo/index"
	"github.com/hupe1980/knngo/index/kdtree"
	"github.com/hupe1980/knngo/index/linear"
	"github.com/hupe1980/knngo/index/voxel"
)

var (
	testPoints = [][]float64{{7, 2}, {5, 4}, {2, 3}, {4, 7}, {9, 6}, {8, 1}}
	testLabels = []string{"A", "B", "C", "D", "E", "F"}
)

func newTestEnsemble(t *testing.T) *Ensemble[float64, string] {
	t.Helper()

	tree, err := kdtree.New(testPoints, testLabels)
	require.NoError(t, err)
	grid, err := voxel.New(testPoints, testLabels)
	require.NoError(t, err)
	scan, err := linear.New(testPoints, testLabels)
	require.NoError(t, err)

	e, err := New[float64, string](tree, grid, scan)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := New[float64, string]()
		assert.Error(t, err)
	})

	t.Run("MismatchedDimensions", func(t *testing.T) {
		a, err := linear.New([][]float64{{1, 2}}, []string{"a"})
		require.NoError(t, err)
		b, err := linear.New([][]float64{{1, 2, 3}}, []string{"a"})
		require.NoError(t, err)

		_, err = New[float64, string](a, b)
		var dm *index.ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("Valid", func(t *testing.T) {
		e := newTestEnsemble(t)
		assert.Equal(t, 3, e.Size())
		assert.Equal(t, 2, e.Dimensions())
		assert.Equal(t, 6, e.Count())
	})
}

func TestNearestNeighbor(t *testing.T) {
	e := newTestEnsemble(t)

	got, err := e.NearestNeighbor(context.Background(), []float64{9, 2})
	require.NoError(t, err)
	assert.Equal(t, "F", got.Payload)
	assert.Equal(t, 2.0, got.Distance)
}

func TestNearestNeighbors(t *testing.T) {
	ctx := context.Background()
	e := newTestEnsemble(t)

	t.Run("MergedAndDeduplicated", func(t *testing.T) {
		got, err := e.NearestNeighbors(ctx, []float64{9, 2}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"F", "A", "E"}, []string{got[0].Payload, got[1].Payload, got[2].Payload})
	})

	t.Run("DegenerateK", func(t *testing.T) {
		got, err := e.NearestNeighbors(ctx, []float64{0, 0}, 0)
		require.NoError(t, err)
		assert.Len(t, got, 6)
	})

	t.Run("Idempotent", func(t *testing.T) {
		// Tie-free query: every engine returns the same ordered list, so the
		// merged result is independent of completion order.
		q := []float64{5.1, 5.2}
		first, err := e.NearestNeighbors(ctx, q, 4)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := e.NearestNeighbors(ctx, q, 4)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestNeighborsInRadius(t *testing.T) {
	ctx := context.Background()
	e := newTestEnsemble(t)

	got, err := e.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Payload)

	all, err := e.NeighborsInRadius(ctx, []float64{5, 5}, 100, -1)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestDuplicatePointsAcrossEngines(t *testing.T) {
	ctx := context.Background()

	points := [][]float64{{1, 1}, {1, 1}, {2, 2}}
	labels := []string{"X", "Y", "Z"}

	tree, err := kdtree.New(points, labels)
	require.NoError(t, err)
	scan, err := linear.New(points, labels)
	require.NoError(t, err)

	e, err := New[float64, string](tree, scan)
	require.NoError(t, err)

	// Identical coordinates collapse to one entry in the merged stream.
	got, err := e.NearestNeighbors(ctx, []float64{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{1, 1}, got[0].Point)
	assert.Equal(t, []float64{2, 2}, got[1].Point)
}

// faultyMethod fails every query; the ensemble must swallow it.
type faultyMethod struct {
	inner index.SearchMethod[float64, string]
}

func (f *faultyMethod) Dimensions() int                   { return f.inner.Dimensions() }
func (f *faultyMethod) Count() int                        { return f.inner.Count() }
func (f *faultyMethod) All() iter.Seq2[[]float64, string] { return f.inner.All() }

func (f *faultyMethod) NearestNeighbor(ctx context.Context, q []float64) (index.Candidate[float64, string], error) {
	return index.Candidate[float64, string]{}, errors.New("boom")
}

func (f *faultyMethod) NearestNeighbors(ctx context.Context, q []float64, k int) ([]index.Candidate[float64, string], error) {
	panic("boom")
}

func (f *faultyMethod) NeighborsInRadius(ctx context.Context, q []float64, r float64, k int) ([]index.Candidate[float64, string], error) {
	return nil, errors.New("boom")
}

func TestSubIndexFaultsAreSwallowed(t *testing.T) {
	ctx := context.Background()

	scan, err := linear.New(testPoints, testLabels)
	require.NoError(t, err)

	e, err := New[float64, string](&faultyMethod{inner: scan}, scan)
	require.NoError(t, err)

	got, err := e.NearestNeighbor(ctx, []float64{9, 2})
	require.NoError(t, err)
	assert.Equal(t, "F", got.Payload)

	res, err := e.NearestNeighbors(ctx, []float64{9, 2}, 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	rres, err := e.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
	require.NoError(t, err)
	assert.Len(t, rres, 1)
}

func TestAllSubIndexesFail(t *testing.T) {
	ctx := context.Background()

	scan, err := linear.New(testPoints, testLabels)
	require.NoError(t, err)

	e, err := New[float64, string](&faultyMethod{inner: scan})
	require.NoError(t, err)

	_, err = e.NearestNeighbor(ctx, []float64{9, 2})
	assert.Error(t, err)

	_, err = e.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
	assert.Error(t, err)
}

func TestCosineEnsemble(t *testing.T) {
	ctx := context.Background()

	points := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	labels := []string{"east", "north", "diag"}

	tree, err := kdtree.New(points, labels, func(o *kdtree.Options[float64]) {
		o.Kind = distance.KindCosine
	})
	require.NoError(t, err)
	scan, err := linear.New(points, labels, func(o *linear.Options) {
		o.Kind = distance.KindCosine
	})
	require.NoError(t, err)

	e, err := New[float64, string](tree, scan)
	require.NoError(t, err)

	got, err := e.NearestNeighbor(ctx, []float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, "diag", got.Payload)
}

func TestDeduper(t *testing.T) {
	d := newDeduper[float64](2)

	assert.False(t, d.seen([]float64{1, 2}))
	assert.True(t, d.seen([]float64{1, 2}))
	assert.False(t, d.seen([]float64{2, 1}))
	assert.False(t, d.seen([]float64{1, 2.0000001}))
	assert.True(t, d.seen([]float64{2, 1}))
}
