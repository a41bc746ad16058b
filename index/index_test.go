package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/knngo/distance"
)

func TestValidateInput(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		dims, err := ValidateInput([][]float64{{1, 2}, {3, 4}}, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, dims)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ValidateInput([][]float64{}, []string{})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		_, err := ValidateInput([][]float64{{1}, {2}}, []string{"a"})
		var sm *ErrShapeMismatch
		require.ErrorAs(t, err, &sm)
		assert.Equal(t, 2, sm.Points)
		assert.Equal(t, 1, sm.Payloads)
	})

	t.Run("RaggedPoints", func(t *testing.T) {
		_, err := ValidateInput([][]float64{{1, 2}, {3}}, []string{"a", "b"})
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 1, dm.Actual)
	})

	t.Run("ZeroDimension", func(t *testing.T) {
		_, err := ValidateInput([][]float64{{}}, []string{"a"})
		var id *ErrInvalidDimension
		assert.ErrorAs(t, err, &id)
	})
}

func TestCheckQuery(t *testing.T) {
	assert.NoError(t, CheckQuery(3, []float64{1, 2, 3}))
	assert.Error(t, CheckQuery(3, []float64{1, 2}))
}

func TestClonePoints(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	cloned := ClonePoints(src, 2)

	src[0][0] = 99
	assert.Equal(t, 1.0, cloned[0][0])
	assert.Equal(t, []float64{3, 4}, cloned[1])
}

func TestErrUnsupportedMetric(t *testing.T) {
	err := &ErrUnsupportedMetric{Kind: distance.KindCosine, Index: "voxel"}
	assert.Equal(t, "voxel index does not support Cosine distance", err.Error())
}
