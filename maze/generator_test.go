package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachable counts the cells connected to the origin through open walls.
func reachable(t *testing.T, m *Maze) int {
	t.Helper()
	start := make(Coordinate, m.Axes())
	seen := map[string]struct{}{start.String(): {}}
	stack := []Coordinate{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for axis := range m.Axes() {
			for _, dir := range []Direction{Forward, Backward} {
				next, err := m.Walk(cur, axis, dir)
				if err != nil {
					require.ErrorIs(t, err, ErrBlockedMove)
					continue
				}
				if _, ok := seen[next.String()]; !ok {
					seen[next.String()] = struct{}{}
					stack = append(stack, next)
				}
			}
		}
	}
	return len(seen)
}

// openEdges counts cleared wall bits over the playable cells.
func openEdges(t *testing.T, m *Maze) int {
	t.Helper()
	open := 0
	for c := range Coordinates(m.Shape()) {
		bits, err := m.Bits(c)
		require.NoError(t, err)
		for axis := range m.Axes() {
			if bits&(1<<axis) == 0 {
				open++
			}
		}
	}
	return open
}

func TestGeneratorSpanningTree(t *testing.T) {
	shapes := []Shape{{1}, {5}, {2, 2}, {4, 7}, {1, 6}, {3, 3, 3}, {2, 1, 3, 2}, {10, 10}}
	for _, shape := range shapes {
		for seed := uint64(1); seed <= 5; seed++ {
			m, err := New(shape...)
			require.NoError(t, err)

			g := NewGenerator(m, NewRand(seed))
			edges := 0
			for e, ok := g.Next(); ok; e, ok = g.Next() {
				require.True(t, m.InBound(e.Position), "edge start %s", e)
				require.True(t, m.InBound(e.To()), "edge end %s", e)

				state, err := m.Get(e.Position, e.Axis, e.Direction)
				require.NoError(t, err)
				require.Equal(t, Wall, state, "edge %s yielded twice", e)

				require.NoError(t, m.Open(e))
				edges++
			}

			cells := shape.Cells()
			assert.True(t, g.Done())
			assert.Zero(t, g.Remaining())
			assert.Equal(t, cells-1, edges, "shape %v seed %d", shape, seed)
			assert.Equal(t, cells-1, openEdges(t, m), "shape %v seed %d", shape, seed)
			// n-1 edges connecting n cells leaves no room for a cycle.
			assert.Equal(t, cells, reachable(t, m), "shape %v seed %d", shape, seed)
		}
	}
}

func TestGeneratorScenarios(t *testing.T) {
	t.Run("Single cell is exhausted immediately", func(t *testing.T) {
		m, err := New(1)
		require.NoError(t, err)

		g := NewGenerator(m, NewRand(7))
		assert.True(t, g.Done())
		assert.True(t, g.InTree(Coordinate{0}))
		assert.False(t, g.Step())

		_, ok := g.Next()
		assert.False(t, ok)
		_, ok = g.NextWalk()
		assert.False(t, ok)
	})

	t.Run("Two by two carves three edges", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			m, err := New(2, 2)
			require.NoError(t, err)

			carved, err := Generate(m, NewRand(seed))
			require.NoError(t, err)
			assert.Equal(t, 3, carved)

			_, errRow := m.Walk(Coordinate{0, 0}, 0, Forward)
			_, errCol := m.Walk(Coordinate{0, 0}, 1, Forward)
			assert.False(t, errRow != nil && errCol != nil, "origin is isolated for seed %d", seed)
		}
	})

	t.Run("Generator never touches the maze", func(t *testing.T) {
		m, err := New(4, 4)
		require.NoError(t, err)
		before := m.Walls()

		g := NewGenerator(m, NewRand(3))
		for range g.Edges() {
		}
		assert.Equal(t, before, m.Walls())
		assert.Same(t, m, g.Maze())
	})
}

func TestGeneratorDeterminism(t *testing.T) {
	run := func(seed uint64) []Edge {
		m, err := New(6, 5)
		require.NoError(t, err)
		var edges []Edge
		for e := range NewGenerator(m, NewRand(seed)).Edges() {
			edges = append(edges, e)
		}
		return edges
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}

func TestGeneratorStepping(t *testing.T) {
	t.Run("Walk in progress stays loop free", func(t *testing.T) {
		m, err := New(5, 5)
		require.NoError(t, err)
		g := NewGenerator(m, NewRand(11))

		for g.Step() {
			walk := g.Walk()
			seen := map[string]struct{}{}
			for i, c := range walk {
				_, dup := seen[c.String()]
				require.False(t, dup, "cell %s repeated in walk", c)
				seen[c.String()] = struct{}{}
				require.False(t, g.InTree(c), "walk cell %s already in tree", c)

				if i > 0 {
					dist := 0
					for d := range c {
						diff := c[d] - walk[i-1][d]
						if diff < 0 {
							diff = -diff
						}
						dist += diff
					}
					require.Equal(t, 1, dist, "walk jumps from %s to %s", walk[i-1], c)
				}
			}
		}
		assert.Empty(t, g.Walk())
	})

	t.Run("Walks chain into the tree", func(t *testing.T) {
		m, err := New(4, 6)
		require.NoError(t, err)
		g := NewGenerator(m, NewRand(5))

		total := 0
		for edges, ok := g.NextWalk(); ok; edges, ok = g.NextWalk() {
			require.NotEmpty(t, edges)
			for i := 1; i < len(edges); i++ {
				assert.Equal(t, edges[i-1].To(), edges[i].Position)
			}
			// The last edge lands on a cell that was already in the tree.
			assert.True(t, g.InTree(edges[len(edges)-1].To()))
			for _, e := range edges {
				require.NoError(t, m.Open(e))
			}
			total += len(edges)
		}
		assert.Equal(t, 23, total)
		assert.Equal(t, 24, reachable(t, m))
	})

	t.Run("Edge and walk granularity mix", func(t *testing.T) {
		m, err := New(3, 4)
		require.NoError(t, err)
		g := NewGenerator(m, NewRand(9))

		first, ok := g.Next()
		require.True(t, ok)
		require.NoError(t, m.Open(first))

		total := 1
		for edges, ok := g.NextWalk(); ok; edges, ok = g.NextWalk() {
			for _, e := range edges {
				require.NoError(t, m.Open(e))
			}
			total += len(edges)
		}
		assert.Equal(t, 11, total)
		assert.Equal(t, 12, reachable(t, m))
	})
}

// TestGeneratorUniform checks that every spanning tree of a 2x3 grid, which
// has 15 of them, comes out about equally often.
func TestGeneratorUniform(t *testing.T) {
	const runs = 15000
	counts := map[string]int{}

	for seed := uint64(0); seed < runs; seed++ {
		m, err := New(2, 3)
		require.NoError(t, err)
		_, err = Generate(m, NewRand(seed))
		require.NoError(t, err)
		counts[string(m.Walls())]++
	}

	require.Len(t, counts, 15)
	for tree, n := range counts {
		assert.InDelta(t, runs/15, n, 200, "tree %v", []byte(tree))
	}
}
