package kdtree

import (
	"fmt"

	"github.com/hupe1980/knngo/num"
)

// Cursor is a read-only navigator over the tree's level-order storage. It
// replaces pointer-linked node navigation with slot arithmetic: the children
// of slot i live at 2i+1 and 2i+2.
type Cursor[D num.Coord, N any] struct {
	tree *Tree[D, N]
	at   int
}

// Root returns a cursor at the root node. ok is false only for a tree with
// no stored points, which construction rules out.
func (t *Tree[D, N]) Root() (Cursor[D, N], bool) {
	if len(t.points) == 0 || t.points[0] == nil {
		return Cursor[D, N]{}, false
	}
	return Cursor[D, N]{tree: t, at: 0}, true
}

// Slot returns the cursor's position in level-order storage.
func (c Cursor[D, N]) Slot() int { return c.at }

// Point returns the node's point. The slice must not be modified.
func (c Cursor[D, N]) Point() []D { return c.tree.points[c.at] }

// Payload returns the node's payload.
func (c Cursor[D, N]) Payload() N { return c.tree.payloads[c.at] }

// Left returns a cursor at the left child, if present.
func (c Cursor[D, N]) Left() (Cursor[D, N], bool) {
	return c.child(2*c.at + 1)
}

// Right returns a cursor at the right child, if present.
func (c Cursor[D, N]) Right() (Cursor[D, N], bool) {
	return c.child(2*c.at + 2)
}

func (c Cursor[D, N]) child(at int) (Cursor[D, N], bool) {
	if at >= len(c.tree.points) || c.tree.points[at] == nil {
		return Cursor[D, N]{}, false
	}
	return Cursor[D, N]{tree: c.tree, at: at}, true
}

// Stats describes the tree's shape.
type Stats struct {
	Count     int     // stored points
	Slots     int     // level-order slots, a power of two
	Depth     int     // levels occupied by at least one point
	Occupancy float64 // Count / Slots
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("kdtree: count=%d slots=%d depth=%d occupancy=%.2f", s.Count, s.Slots, s.Depth, s.Occupancy)
}

// Stats returns statistics about the tree.
func (t *Tree[D, N]) Stats() Stats {
	deepest := 0
	for i, p := range t.points {
		if p != nil && i > deepest {
			deepest = i
		}
	}

	depth := 0
	for n := deepest + 1; n > 0; n >>= 1 {
		depth++
	}

	return Stats{
		Count:     t.count,
		Slots:     len(t.points),
		Depth:     depth,
		Occupancy: float64(t.count) / float64(len(t.points)),
	}
}
