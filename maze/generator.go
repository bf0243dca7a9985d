package maze

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"time"
)

// step records how a walk reached its next cell.
type step struct {
	axis int
	dir  Direction
}

// Generator carves a uniform spanning tree over a maze with Wilson's algorithm.
//
// Each walk starts at the first cell, in enumeration order, that is not yet part
// of the tree and wanders randomly, erasing any loop it closes, until it hits
// the tree. The finished walk then joins the tree and its edges are yielded.
// The generator only reads the maze's shape; callers open the yielded edges.
type Generator struct {
	maze    *Maze       // Maze the generator is bound to.
	shape   Shape       // Playable extents.
	strides []int       // Row-major strides over shape.
	rng     *rand.Rand  // Source of every random choice.
	inTree  []bool      // Tree membership per playable cell.
	treeLen int         // Number of cells in the tree.
	cursor  *Enumerator // Scans for the next walk start.
	walk    []Coordinate
	steps   []step // steps[i] leads from walk[i] to walk[i+1].
	onWalk  []int  // Walk index + 1 per playable cell, 0 when not on the walk.
	pending []Edge // Edges of finished walks not yet handed out.
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewGenerator binds a generator to m, which should still be fully walled.
// One cell chosen uniformly at random seeds the tree. A nil rng is replaced by
// a time-seeded source.
func NewGenerator(m *Maze, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	shape := m.Shape()
	cells := shape.Cells()
	g := &Generator{
		maze:    m,
		shape:   shape,
		strides: make([]int, len(shape)),
		rng:     rng,
		inTree:  make([]bool, cells),
		onWalk:  make([]int, cells),
		cursor:  NewEnumerator(shape),
	}

	size := 1
	for d := len(shape) - 1; d >= 0; d-- {
		g.strides[d] = size
		size *= shape[d]
	}

	first := make(Coordinate, len(shape))
	for d, extent := range shape {
		first[d] = rng.IntN(extent)
	}
	g.inTree[g.index(first)] = true
	g.treeLen = 1

	return g
}

// Maze returns the maze the generator is bound to.
func (g *Generator) Maze() *Maze {
	return g.maze
}

// Done reports whether every edge has been handed out.
func (g *Generator) Done() bool {
	return len(g.pending) == 0 && g.treeLen == len(g.inTree)
}

// Remaining returns the number of cells not yet in the tree.
func (g *Generator) Remaining() int {
	return len(g.inTree) - g.treeLen
}

// InTree reports whether the playable cell c already belongs to the tree.
func (g *Generator) InTree(c Coordinate) bool {
	if !g.maze.InBound(c) {
		return false
	}
	return g.inTree[g.index(c)]
}

// Walk returns a copy of the walk in progress, oldest cell first.
func (g *Generator) Walk() []Coordinate {
	walk := make([]Coordinate, len(g.walk))
	for i, c := range g.walk {
		walk[i] = c.Clone()
	}
	return walk
}

// Step performs one unit of random-walk work: starting a walk, or moving its
// head once. It returns false when no cell is left outside the tree.
func (g *Generator) Step() bool {
	if len(g.walk) == 0 {
		start, ok := g.nextStart()
		if !ok {
			return false
		}
		g.push(start, step{})
		return true
	}

	head := g.walk[len(g.walk)-1]
	next, s := g.sample(head)
	idx := g.index(next)

	if pos := g.onWalk[idx]; pos > 0 {
		// Loop: erase everything after the earlier visit.
		g.truncate(pos)
	} else {
		g.push(next, s)
	}

	if g.inTree[idx] {
		g.finishWalk()
	}
	return true
}

// Next returns the next edge to open, stepping the walk as needed.
// It returns false once the spanning tree is complete.
func (g *Generator) Next() (Edge, bool) {
	for len(g.pending) == 0 {
		if !g.Step() {
			return Edge{}, false
		}
	}

	e := g.pending[0]
	g.pending = g.pending[1:]
	return e, true
}

// NextWalk returns the edges of the next finished walk, or what is left of
// the current one. It returns false once the spanning tree is complete.
func (g *Generator) NextWalk() ([]Edge, bool) {
	for len(g.pending) == 0 {
		if !g.Step() {
			return nil, false
		}
	}

	edges := g.pending
	g.pending = nil
	return edges, true
}

// Edges returns a sequence draining the generator edge by edge.
func (g *Generator) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for e, ok := g.Next(); ok; e, ok = g.Next() {
			if !yield(e) {
				return
			}
		}
	}
}

// Generate runs a fresh generator over m to completion, opening every edge,
// and returns the number of edges opened.
func Generate(m *Maze, rng *rand.Rand) (int, error) {
	g := NewGenerator(m, rng)
	carved := 0
	for e := range g.Edges() {
		if err := m.Open(e); err != nil {
			return carved, err
		}
		carved++
	}
	return carved, nil
}

// nextStart scans forward for a cell outside the tree.
func (g *Generator) nextStart() (Coordinate, bool) {
	if g.treeLen == len(g.inTree) {
		return nil, false
	}
	for c, ok := g.cursor.Next(); ok; c, ok = g.cursor.Next() {
		if !g.inTree[g.index(c)] {
			return c, true
		}
	}
	panic(fmt.Sprintf("maze: enumeration exhausted with %d of %d cells in tree", g.treeLen, len(g.inTree)))
}

// sample draws axis and direction uniformly until the move stays in bounds.
func (g *Generator) sample(head Coordinate) (Coordinate, step) {
	if !g.canMove() {
		panic(fmt.Sprintf("maze: walk at %s has no legal move in shape %v", head, []int(g.shape)))
	}

	for {
		axis := g.rng.IntN(len(g.shape))
		dir := Forward
		if g.rng.IntN(2) == 1 {
			dir = Backward
		}

		v := head[axis] + dir.Delta()
		if v < 0 || v >= g.shape[axis] {
			continue
		}

		next := head.Clone()
		next[axis] = v
		return next, step{axis: axis, dir: dir}
	}
}

func (g *Generator) canMove() bool {
	for _, extent := range g.shape {
		if extent > 1 {
			return true
		}
	}
	return false
}

// push appends c to the walk; s is ignored for the first cell.
func (g *Generator) push(c Coordinate, s step) {
	if len(g.walk) > 0 {
		g.steps = append(g.steps, s)
	}
	g.walk = append(g.walk, c)
	g.onWalk[g.index(c)] = len(g.walk)
}

// truncate keeps the first n cells of the walk.
func (g *Generator) truncate(n int) {
	for _, c := range g.walk[n:] {
		g.onWalk[g.index(c)] = 0
	}
	g.walk = g.walk[:n]
	g.steps = g.steps[:n-1]
}

// finishWalk adds the walk to the tree and queues its edges.
func (g *Generator) finishWalk() {
	for i, c := range g.walk {
		idx := g.index(c)
		g.onWalk[idx] = 0
		if !g.inTree[idx] {
			g.inTree[idx] = true
			g.treeLen++
		}
		if i < len(g.steps) {
			g.pending = append(g.pending, Edge{
				Position:  c,
				Axis:      g.steps[i].axis,
				Direction: g.steps[i].dir,
			})
		}
	}
	g.walk = nil
	g.steps = nil
}

func (g *Generator) index(c Coordinate) int {
	idx := 0
	for d, v := range c {
		idx += v * g.strides[d]
	}
	return idx
}
