package maze

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Shape holds the extent of every axis of a maze.
type Shape []int

// Cells returns the number of coordinates covered by the shape.
// A count that does not fit in an int saturates at math.MaxInt.
func (s Shape) Cells() int {
	for _, extent := range s {
		if extent <= 0 {
			return 0
		}
	}
	n := 1
	for _, extent := range s {
		if n > math.MaxInt/extent {
			return math.MaxInt
		}
		n *= extent
	}
	return n
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	return append(Shape(nil), s...)
}

// Coordinate is a position in the grid, one index per axis.
type Coordinate []int

// Clone returns a copy of the coordinate.
func (c Coordinate) Clone() Coordinate {
	return append(Coordinate(nil), c...)
}

// Equal reports whether both coordinates have the same indices.
func (c Coordinate) Equal(o Coordinate) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// String formats the coordinate as (i, j, ...).
func (c Coordinate) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Enumerator walks every coordinate of a shape in lexicographic order,
// last axis varying fastest. It cannot be rewound; create a new one to
// start over.
type Enumerator struct {
	shape   Shape      // Extents being enumerated.
	cur     Coordinate // Last coordinate handed out.
	started bool       // Whether Next has been called at least once.
	done    bool       // Whether the sequence is exhausted.
}

// NewEnumerator returns an enumerator positioned before the first coordinate of shape.
func NewEnumerator(shape Shape) *Enumerator {
	e := &Enumerator{shape: shape.Clone()}
	for _, extent := range shape {
		if extent <= 0 {
			e.done = true
			break
		}
	}
	return e
}

// Next returns the next coordinate and true, or false once every coordinate was produced.
// The returned coordinate is owned by the caller.
func (e *Enumerator) Next() (Coordinate, bool) {
	if e.done {
		return nil, false
	}

	if !e.started {
		e.started = true
		e.cur = make(Coordinate, len(e.shape))
		return e.cur.Clone(), true
	}

	for axis := len(e.shape) - 1; axis >= 0; axis-- {
		e.cur[axis]++
		if e.cur[axis] < e.shape[axis] {
			return e.cur.Clone(), true
		}
		e.cur[axis] = 0
	}

	e.done = true
	return nil, false
}

// Coordinates returns a sequence over every coordinate of shape.
// Each call to the returned sequence starts from the first coordinate.
func Coordinates(shape Shape) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		e := NewEnumerator(shape)
		for c, ok := e.Next(); ok; c, ok = e.Next() {
			if !yield(c) {
				return
			}
		}
	}
}
