// Package spatial finds every (observer, observed) pair within a
// perception radius of each other, using a uniform grid instead of an
// O(N^2) scan. The cell-hash shape here is the same one the retrieval
// pack's swarm and grid-world simulations use: a map from a coarse
// "cellX:cellY" key to the handles that fall in it, scanned cell-plus-
// eight-neighbours per query point.
package spatial

import (
	"fmt"

	"github.com/vthunder/emberworld/internal/types"
)

// point is anything with a position and an id the grid can index.
type point struct {
	id       string
	position types.Position
	isAgent  bool
}

// Grid buckets points into cells of a fixed size so that a radius query
// only has to examine nearby cells.
type Grid struct {
	cellSize float32
	cells    map[cellKey][]point
}

type cellKey struct{ x, y int64 }

func keyFor(p types.Position, cellSize float32) cellKey {
	return cellKey{
		x: int64(floorDiv(p.X, cellSize)),
		y: int64(floorDiv(p.Y, cellSize)),
	}
}

func floorDiv(v, by float32) float32 {
	q := v / by
	f := float32(int64(q))
	if q < 0 && f != q {
		f--
	}
	return f
}

// NewGrid buckets every agent and object in w into cells of size
// radius, the size the sweep below depends on to only scan 9 cells.
func NewGrid(w types.World, radius float32) *Grid {
	g := &Grid{cellSize: radius, cells: make(map[cellKey][]point)}
	for _, a := range w.Agents {
		pt := point{id: a.ID(), position: a.Identity.Entity.Position, isAgent: true}
		k := keyFor(pt.position, radius)
		g.cells[k] = append(g.cells[k], pt)
	}
	for _, o := range w.Objects {
		pt := point{id: o.Entity.ID, position: o.Entity.Position, isAgent: false}
		k := keyFor(pt.position, radius)
		g.cells[k] = append(g.cells[k], pt)
	}
	return g
}

// neighbours returns the 9 cells (self + 8 adjacent) around p.
func (g *Grid) neighbours(p types.Position) []point {
	center := keyFor(p, g.cellSize)
	var out []point
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			k := cellKey{x: center.x + dx, y: center.y + dy}
			out = append(out, g.cells[k]...)
		}
	}
	return out
}

// Pair is one admitted (observer, observed) relation.
type Pair struct {
	ObserverID string
	ObservedID string
	IsAgent    bool // whether the observed point is an agent (vs. object)
	Distance   float32
}

// String renders a pair for debug logging.
func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s (%.2f)", p.ObserverID, p.ObservedID, p.Distance)
}

// Sweep returns every (observer, observed) pair within radius of each
// other: observer ranges over agents only, observed ranges over every
// other agent and every object. Self-pairs are excluded. Output order
// is implementation-defined. Empty input yields empty output.
func Sweep(w types.World, radius float32) []Pair {
	if radius <= 0 || len(w.Agents) == 0 {
		return nil
	}
	grid := NewGrid(w, radius)
	var pairs []Pair
	for _, observer := range w.Agents {
		op := observer.Identity.Entity.Position
		for _, candidate := range grid.neighbours(op) {
			if candidate.id == observer.ID() {
				continue
			}
			d := op.Distance(candidate.position)
			if d <= radius {
				pairs = append(pairs, Pair{
					ObserverID: observer.ID(),
					ObservedID: candidate.id,
					IsAgent:    candidate.isAgent,
					Distance:   d,
				})
			}
		}
	}
	return pairs
}
