// Package queue provides the candidate containers used by the search indexes.
package queue

import (
	"math"
	"slices"
	"sort"
)

// BoundedPriorityList is a fixed-capacity collection of elements ordered by
// ascending priority. It is the k-best accumulator behind every k-NN and
// radius query.
//
// Invariants: Len() <= Cap(), and priorities are non-decreasing by position.
// Once full, an element is admitted only if its priority is strictly smaller
// than the current maximum, which is evicted. Equal priorities keep insertion
// order.
//
// Storage is two parallel sorted slices with binary-search insertion. K is
// typically small, so a contiguous array beats a heap on both simplicity and
// cache behavior.
type BoundedPriorityList[E any] struct {
	elems      []E
	priorities []float64
	capacity   int
}

// NewBounded returns an empty list that holds at most capacity elements.
// Capacity must be at least 1.
func NewBounded[E any](capacity int) *BoundedPriorityList[E] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedPriorityList[E]{
		elems:      make([]E, 0, min(capacity, 1024)),
		priorities: make([]float64, 0, min(capacity, 1024)),
		capacity:   capacity,
	}
}

// Len returns the number of stored elements.
func (l *BoundedPriorityList[E]) Len() int { return len(l.elems) }

// Cap returns the capacity.
func (l *BoundedPriorityList[E]) Cap() int { return l.capacity }

// IsFull reports whether the list is at capacity.
func (l *BoundedPriorityList[E]) IsFull() bool { return len(l.elems) == l.capacity }

// MaxPriority returns the largest stored priority, or +Inf when empty.
func (l *BoundedPriorityList[E]) MaxPriority() float64 {
	if len(l.priorities) == 0 {
		return math.Inf(1)
	}
	return l.priorities[len(l.priorities)-1]
}

// MinPriority returns the smallest stored priority, or +Inf when empty.
func (l *BoundedPriorityList[E]) MinPriority() float64 {
	if len(l.priorities) == 0 {
		return math.Inf(1)
	}
	return l.priorities[0]
}

// At returns the element and priority at position i (ascending by priority).
func (l *BoundedPriorityList[E]) At(i int) (E, float64) {
	return l.elems[i], l.priorities[i]
}

// Add inserts elem with the given priority and reports whether it was kept.
// When full, a priority equal to the current maximum is dropped; a strictly
// smaller one evicts the maximum.
func (l *BoundedPriorityList[E]) Add(elem E, priority float64) bool {
	if len(l.elems) == l.capacity {
		if priority >= l.priorities[l.capacity-1] {
			return false
		}
		l.elems = l.elems[:l.capacity-1]
		l.priorities = l.priorities[:l.capacity-1]
	}

	// Upper-bound position: equal priorities stay in insertion order.
	i := sort.Search(len(l.priorities), func(i int) bool {
		return l.priorities[i] > priority
	})
	l.elems = slices.Insert(l.elems, i, elem)
	l.priorities = slices.Insert(l.priorities, i, priority)

	return true
}
