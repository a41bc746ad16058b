package kdtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfiniteRect(t *testing.T) {
	r := InfiniteRect(3, math.Inf(-1), math.Inf(1))
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsInf(r.Min[i], -1))
		assert.True(t, math.IsInf(r.Max[i], 1))
	}

	ri := InfiniteRect[int32](2, math.MinInt32, math.MaxInt32)
	assert.Equal(t, int32(math.MinInt32), ri.Min[0])
	assert.Equal(t, int32(math.MaxInt32), ri.Max[1])
}

func TestSplit(t *testing.T) {
	r := HyperRect[float64]{Min: []float64{0, 0}, Max: []float64{10, 10}}
	left, right := r.Split(0, 4)

	assert.Equal(t, []float64{0, 0}, left.Min)
	assert.Equal(t, []float64{4, 10}, left.Max)
	assert.Equal(t, []float64{4, 0}, right.Min)
	assert.Equal(t, []float64{10, 10}, right.Max)

	// Splitting clones; the original is untouched.
	assert.Equal(t, []float64{10, 10}, r.Max)

	left.Min[1] = 99
	assert.Equal(t, 0.0, r.Min[1])
}

func TestClosestTo(t *testing.T) {
	r := HyperRect[float64]{Min: []float64{0, 0}, Max: []float64{10, 10}}
	dst := make([]float64, 2)

	t.Run("Inside", func(t *testing.T) {
		assert.Equal(t, []float64{3, 7}, r.ClosestTo([]float64{3, 7}, dst))
	})

	t.Run("Below", func(t *testing.T) {
		assert.Equal(t, []float64{0, 5}, r.ClosestTo([]float64{-2, 5}, dst))
	})

	t.Run("Above", func(t *testing.T) {
		assert.Equal(t, []float64{10, 10}, r.ClosestTo([]float64{15, 12}, dst))
	})

	t.Run("OnBoundary", func(t *testing.T) {
		assert.Equal(t, []float64{0, 10}, r.ClosestTo([]float64{0, 10}, dst))
	})
}
