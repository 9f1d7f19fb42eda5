// Package spatial is the broad phase: a uniform grid rebuilt from scratch every tick
// Buckets are intrusive singly linked lists (head per cell, next per agent) so a rebuild allocates nothing once sized
package spatial

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/arena/agent"
)

const empty int32 = -1

// RadiusFunc returns the current effective radius of agent i
type RadiusFunc func(i int) float64

// Partition runs fn over [0,n) split into chunks and returns once every chunk finished
// Chunks may run concurrently
type Partition func(n int, fn func(lo, hi int))

// Grid owns no agent data, only index lists keyed by cell
type Grid struct {
	CellSize   float64
	Cols, Rows int

	width, height float64

	head []int32 // first agent per cell
	next []int32 // next agent in the same cell
	cell []int32 // cell per agent, empty if not inserted
}

// Stats reports broad phase work of one pair sweep
type Stats struct {
	Pairs       int // Candidate pairs yielded
	CappedCells int // Cell neighborhoods cut short by the pair cap
}

// forward neighbor offsets, each unordered cell pair is scanned from exactly one side
var forward = [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// Build rebuilds the grid from the store
// Cell side is max(minCell, ceil(2*maxEffectiveRadius)) so every overlapping pair shares a cell or touches an adjacent one
func (g *Grid) Build(s *agent.Store, radius RadiusFunc, width, height, minCell float64, includeDying bool) {
	g.layout(s, radius, width, height, minCell, includeDying)
	for i := range s.State {
		if c, ok := g.bucket(s, radius, i, includeDying); ok {
			g.cell[i] = c
			g.next[i] = g.head[c]
			g.head[c] = int32(i)
		}
	}
}

// BuildParallel is Build with bucketing spread over part; cell heads are claimed by CAS
// List order within a cell depends on scheduling
func (g *Grid) BuildParallel(s *agent.Store, radius RadiusFunc, width, height, minCell float64, includeDying bool, part Partition) {
	g.layout(s, radius, width, height, minCell, includeDying)
	part(s.Len(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			c, ok := g.bucket(s, radius, i, includeDying)
			if !ok {
				continue
			}
			g.cell[i] = c
			for {
				old := atomic.LoadInt32(&g.head[c])
				g.next[i] = old
				if atomic.CompareAndSwapInt32(&g.head[c], old, int32(i)) {
					break
				}
			}
		}
	})
}

// layout sizes the grid for the current largest radius and clears all lists
func (g *Grid) layout(s *agent.Store, radius RadiusFunc, width, height, minCell float64, includeDying bool) {
	var maxR float64
	for i, st := range s.State {
		if !agent.Eligible(st, includeDying) {
			continue
		}
		maxR = math.Max(maxR, radius(i))
	}

	g.width, g.height = width, height
	g.CellSize = math.Max(math.Max(minCell, 1), math.Ceil(2*maxR))
	g.Cols = max(1, int(math.Ceil(width/g.CellSize)))
	g.Rows = max(1, int(math.Ceil(height/g.CellSize)))

	cells := g.Cols * g.Rows
	if cap(g.head) < cells {
		g.head = make([]int32, cells)
	}
	g.head = g.head[:cells]
	for c := range g.head {
		g.head[c] = empty
	}

	n := s.Len()
	if cap(g.next) < n {
		g.next = make([]int32, n)
		g.cell = make([]int32, n)
	}
	g.next = g.next[:n]
	g.cell = g.cell[:n]
	for i := range g.next {
		g.next[i] = empty
		g.cell[i] = empty
	}
}

// bucket returns the cell of agent i, clamping its position into [r, size-r] first
func (g *Grid) bucket(s *agent.Store, radius RadiusFunc, i int, includeDying bool) (int32, bool) {
	if !agent.Eligible(s.State[i], includeDying) {
		return empty, false
	}
	r := radius(i)
	x := clampInset(s.X[i], r, g.width)
	y := clampInset(s.Y[i], r, g.height)
	return int32(g.cellAt(x, y)), true
}

func clampInset(v, r, size float64) float64 {
	if 2*r >= size {
		return size / 2
	}
	return math.Min(size-r, math.Max(r, v))
}

func (g *Grid) cellAt(x, y float64) int {
	cx := min(g.Cols-1, max(0, int(x/g.CellSize)))
	cy := min(g.Rows-1, max(0, int(y/g.CellSize)))
	return cy*g.Cols + cx
}

// Cell returns the cell index of agent i, -1 if it was not inserted
func (g *Grid) Cell(i int) int {
	if i < 0 || i >= len(g.cell) {
		return -1
	}
	return int(g.cell[i])
}

// ForEachPair yields every candidate pair once, lower index first
// maxPerCell caps pairs per cell neighborhood, 0 = unlimited; the rest of a capped neighborhood is skipped this tick
func (g *Grid) ForEachPair(maxPerCell int, fn func(i, j int)) Stats {
	var st Stats
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			c := cy*g.Cols + cx
			budget := maxPerCell
			yield := func(a, b int32) bool {
				if maxPerCell > 0 {
					if budget == 0 {
						return false
					}
					budget--
				}
				if a > b {
					a, b = b, a
				}
				st.Pairs++
				fn(int(a), int(b))
				return true
			}

		cell:
			for i := g.head[c]; i != empty; i = g.next[i] {
				for j := g.next[i]; j != empty; j = g.next[j] {
					if !yield(i, j) {
						st.CappedCells++
						break cell
					}
				}
				for _, off := range forward {
					nx, ny := cx+off[0], cy+off[1]
					if nx < 0 || nx >= g.Cols || ny >= g.Rows {
						continue
					}
					for j := g.head[ny*g.Cols+nx]; j != empty; j = g.next[j] {
						if !yield(i, j) {
							st.CappedCells++
							break cell
						}
					}
				}
			}
		}
	}
	return st
}

// ForEachNeighbor yields every agent in the 3x3 block around agent i's cell, excluding i
// limit caps candidates, 0 = unlimited; returns false when the cap cut the scan short
func (g *Grid) ForEachNeighbor(i, limit int, fn func(j int)) bool {
	c := g.Cell(i)
	if c < 0 {
		return true
	}
	cx, cy := c%g.Cols, c/g.Cols
	seen := 0
	for dy := -1; dy <= 1; dy++ {
		ny := cy + dy
		if ny < 0 || ny >= g.Rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			if nx < 0 || nx >= g.Cols {
				continue
			}
			for j := g.head[ny*g.Cols+nx]; j != empty; j = g.next[j] {
				if int(j) == i {
					continue
				}
				if limit > 0 && seen == limit {
					return false
				}
				seen++
				fn(int(j))
			}
		}
	}
	return true
}
