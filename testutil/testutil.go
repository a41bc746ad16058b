// Package testutil provides seeded data generators shared by the test
// suites.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points with dims coordinates drawn uniformly
// from [minVal, maxVal). A single backing array keeps the points contiguous.
func (r *RNG) UniformPoints(num, dims int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	data := make([]float64, num*dims)
	points := make([][]float64, num)
	for i := range points {
		p := data[i*dims : (i+1)*dims]
		for j := range p {
			p[j] = minVal + r.rand.Float64()*span
		}
		points[i] = p
	}

	return points
}

// IntPoints generates num points with dims integer coordinates drawn
// uniformly from [minVal, maxVal).
func (r *RNG) IntPoints(num, dims int, minVal, maxVal int64) [][]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	points := make([][]int64, num)
	for i := range points {
		p := make([]int64, dims)
		for j := range p {
			p[j] = minVal + r.rand.Int63n(span)
		}
		points[i] = p
	}

	return points
}

// Perm returns a pseudo-random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Labels generates n distinct string payloads.
func Labels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("p%04d", i)
	}
	return labels
}
