package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(1)
	points := rng.UniformPoints(100, 3, -10, 10)

	require.Len(t, points, 100)
	for _, p := range points {
		require.Len(t, p, 3)
		for _, c := range p {
			assert.GreaterOrEqual(t, c, -10.0)
			assert.Less(t, c, 10.0)
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := NewRNG(7).UniformPoints(10, 2, 0, 1)
	b := NewRNG(7).UniformPoints(10, 2, 0, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), NewRNG(7).Seed())
}

func TestIntPoints(t *testing.T) {
	points := NewRNG(3).IntPoints(50, 2, -5, 5)
	require.Len(t, points, 50)
	for _, p := range points {
		for _, c := range p {
			assert.GreaterOrEqual(t, c, int64(-5))
			assert.Less(t, c, int64(5))
		}
	}
}

func TestLabels(t *testing.T) {
	labels := Labels(3)
	assert.Equal(t, []string{"p0000", "p0001", "p0002"}, labels)
}
