package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/knngo"
	"github.com/hupe1980/knngo/index/linear"
	"github.com/hupe1980/knngo/index/voxel"
	"github.com/hupe1980/knngo/testutil"
)

var (
	wikiPoints = [][]float64{{7, 2}, {5, 4}, {2, 3}, {4, 7}, {9, 6}, {8, 1}}
	wikiLabels = []string{"A", "B", "C", "D", "E", "F"}
)

// The classic 2-D KD-tree example, on every index.
func TestScenarioWikiExample(t *testing.T) {
	ctx := context.Background()

	for _, kind := range indexKinds {
		idx, err := knngo.Create(wikiPoints, wikiLabels, knngo.L2, func(o *knngo.Options[float64]) {
			o.IndexKind = kind
		})
		require.NoError(t, err)

		got, err := idx.NearestNeighbor(ctx, []float64{9, 2})
		require.NoError(t, err)
		assert.Equal(t, []float64{8, 1}, got.Point, kind.String())
		assert.Equal(t, "F", got.Payload, kind.String())

		top3, err := idx.NearestNeighbors(ctx, []float64{9, 2}, 3)
		require.NoError(t, err)
		require.Len(t, top3, 3, kind.String())
		assert.Equal(t, "F", top3[0].Payload, kind.String())
		assert.Equal(t, "A", top3[1].Payload, kind.String())
		assert.Equal(t, "E", top3[2].Payload, kind.String())
	}
}

// Radius search cross-checked against the oracle rather than a literal list.
func TestScenarioRadiusMatchesOracle(t *testing.T) {
	ctx := context.Background()

	oracle, err := linear.New(wikiPoints, wikiLabels)
	require.NoError(t, err)
	want, err := oracle.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
	require.NoError(t, err)

	for _, kind := range indexKinds {
		idx, err := knngo.Create(wikiPoints, wikiLabels, knngo.L2, func(o *knngo.Options[float64]) {
			o.IndexKind = kind
		})
		require.NoError(t, err)

		got, err := idx.NeighborsInRadius(ctx, []float64{5, 5}, 2, -1)
		require.NoError(t, err)
		requireSameOrder(t, want, got, kind.String())
	}
}

// Two coincident points both come back at distance zero.
func TestScenarioCoincidentPoints(t *testing.T) {
	ctx := context.Background()

	for _, kind := range indexKinds {
		idx, err := knngo.Create([][]float64{{1, 1}, {1, 1}}, []string{"X", "Y"}, knngo.L2, func(o *knngo.Options[float64]) {
			o.IndexKind = kind
		})
		require.NoError(t, err)

		got, err := idx.NearestNeighbors(ctx, []float64{1, 1}, 2)
		require.NoError(t, err)

		if kind == knngo.IndexKindEnsemble {
			// The ensemble deduplicates by coordinate identity, so the two
			// coincident points collapse into one stream entry.
			require.Len(t, got, 1, kind.String())
			assert.Equal(t, 0.0, got[0].Distance)
			continue
		}

		require.Len(t, got, 2, kind.String())
		assert.Equal(t, 0.0, got[0].Distance)
		assert.Equal(t, 0.0, got[1].Distance)
		assert.ElementsMatch(t, []string{"X", "Y"}, []string{got[0].Payload, got[1].Payload})
	}
}

// Degenerate k returns the entire data set.
func TestScenarioDegenerateK(t *testing.T) {
	ctx := context.Background()

	for _, kind := range indexKinds {
		idx, err := knngo.Create(wikiPoints, wikiLabels, knngo.L2, func(o *knngo.Options[float64]) {
			o.IndexKind = kind
		})
		require.NoError(t, err)

		for _, k := range []int{0, len(wikiPoints) + 10} {
			got, err := idx.NearestNeighbors(ctx, []float64{3, 3}, k)
			require.NoError(t, err)
			assert.Len(t, got, len(wikiPoints), "%s k=%d", kind, k)
		}
	}
}

// Voxel-grid saturation: a million points keep the grid within four times
// the 10^6-cell target and nearest-1 still agrees with the oracle.
func TestScenarioVoxelSaturation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping million-point build in short mode")
	}

	ctx := context.Background()
	rng := testutil.NewRNG(4242)

	const n = 1_000_000
	points := rng.UniformPoints(n, 2, 0, 1000)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	g, err := voxel.New(points, labels)
	require.NoError(t, err)

	stats := g.Stats()
	assert.LessOrEqual(t, stats.Cells, 4*voxel.DefaultMaxCells)
	assert.Greater(t, stats.SideLength, 0.0)

	oracle, err := linear.New(points, labels)
	require.NoError(t, err)

	corner := []float64{0, 0}
	want, err := oracle.NearestNeighbor(ctx, corner)
	require.NoError(t, err)
	got, err := g.NearestNeighbor(ctx, corner)
	require.NoError(t, err)

	assert.Equal(t, want.Payload, got.Payload)
	assert.Equal(t, want.Distance, got.Distance)
}
