package maze

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(e *Enumerator) []Coordinate {
	var out []Coordinate
	for c, ok := e.Next(); ok; c, ok = e.Next() {
		out = append(out, c)
	}
	return out
}

func TestEnumerator(t *testing.T) {
	t.Run("Covers the cartesian product in lexicographic order", func(t *testing.T) {
		got := collect(NewEnumerator(Shape{2, 3}))

		want := []Coordinate{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
		assert.Equal(t, want, got)
	})

	t.Run("Produces every coordinate exactly once", func(t *testing.T) {
		shape := Shape{3, 1, 4, 2}
		got := collect(NewEnumerator(shape))
		require.Len(t, got, shape.Cells())

		seen := map[string]struct{}{}
		for i, c := range got {
			seen[c.String()] = struct{}{}
			if i > 0 {
				assert.Equal(t, -1, slices.Compare(got[i-1], c), "out of order at %d", i)
			}
		}
		assert.Len(t, seen, shape.Cells())
	})

	t.Run("Fresh enumerators restart the sequence", func(t *testing.T) {
		shape := Shape{2, 2, 2}
		first := collect(NewEnumerator(shape))
		second := collect(NewEnumerator(shape))
		assert.Equal(t, first, second)
	})

	t.Run("Exhausted enumerator stays exhausted", func(t *testing.T) {
		e := NewEnumerator(Shape{1})
		_, ok := e.Next()
		require.True(t, ok)

		_, ok = e.Next()
		assert.False(t, ok)
		_, ok = e.Next()
		assert.False(t, ok)
	})

	t.Run("Zero extent yields nothing", func(t *testing.T) {
		assert.Empty(t, collect(NewEnumerator(Shape{3, 0, 2})))
	})

	t.Run("Returned coordinates are not aliased", func(t *testing.T) {
		e := NewEnumerator(Shape{2})
		c, _ := e.Next()
		c[0] = 42
		next, _ := e.Next()
		assert.Equal(t, Coordinate{1}, next)
	})
}

func TestCoordinates(t *testing.T) {
	t.Run("Sequence matches the enumerator", func(t *testing.T) {
		shape := Shape{2, 3}
		var got []Coordinate
		for c := range Coordinates(shape) {
			got = append(got, c)
		}
		assert.Equal(t, collect(NewEnumerator(shape)), got)
	})

	t.Run("Stops when the consumer breaks", func(t *testing.T) {
		count := 0
		for range Coordinates(Shape{10, 10}) {
			count++
			if count == 5 {
				break
			}
		}
		assert.Equal(t, 5, count)
	})
}

func TestCoordinateHelpers(t *testing.T) {
	c := Coordinate{1, 2, 3}
	assert.Equal(t, "(1, 2, 3)", c.String())
	assert.True(t, c.Equal(Coordinate{1, 2, 3}))
	assert.False(t, c.Equal(Coordinate{1, 2}))
	assert.False(t, c.Equal(Coordinate{1, 2, 4}))
	assert.Equal(t, 0, Shape{4, 0}.Cells())
	assert.Equal(t, 24, Shape{2, 3, 4}.Cells())
	assert.Equal(t, math.MaxInt, Shape{1 << 62, 4}.Cells())
	assert.Equal(t, math.MaxInt, Shape{1 << 32, 1 << 32}.Cells())
}
