/*
Package maze provides n-dimensional mazes and their generation.

A Maze stores, for every cell, a bitmask with one bit per axis. Bit d of the
cell at index i records whether a wall separates it from its neighbor at
index i-1 along axis d. One extra layer per axis, past the last playable
cell, holds the closed outer boundary.

Generator carves a uniform spanning tree with Wilson's algorithm. It is a
pull-based state machine: callers advance it one edge (or one walk) at a
time and clear the yielded walls on the Maze themselves, which lets a
renderer animate the carving.
*/
package maze

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxAxes bounds the number of axes so a cell's walls fit in one byte.
const MaxAxes = 7

var (
	ErrInvalidShape = errors.New("invalid maze shape")
	ErrOutOfRange   = errors.New("coordinate out of range")
	ErrBlockedMove  = errors.New("move blocked by wall")
)

// Direction is the sense of a step along an axis.
type Direction uint8

const (
	Forward  Direction = iota // Towards increasing indices.
	Backward                  // Towards decreasing indices.
)

// ParseDirection parses "forward" or "backward".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Delta returns +1 for Forward and -1 for Backward.
func (d Direction) Delta() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Forward && d != Backward {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WallState tells whether a boundary is closed.
type WallState uint8

const (
	Wall   WallState = iota // The boundary blocks movement.
	NoWall                  // The boundary is open.
)

func (w WallState) String() string {
	if w == NoWall {
		return "nowall"
	}
	return "wall"
}

// Edge names the boundary crossed when stepping from Position along Axis in Direction.
type Edge struct {
	Position  Coordinate
	Axis      int
	Direction Direction
}

// To returns the cell on the other side of the edge.
func (e Edge) To() Coordinate {
	to := e.Position.Clone()
	to[e.Axis] += e.Direction.Delta()
	return to
}

func (e Edge) String() string {
	return fmt.Sprintf("%s axis=%d %s", e.Position, e.Axis, e.Direction)
}

// Maze is a grid of cells separated by walls along every axis.
// It is not safe for concurrent mutation.
type Maze struct {
	shape   Shape   // Playable extent per axis.
	dims    []int   // Storage extent per axis (shape + 1 for the outer wall).
	strides []int   // Row-major strides over dims.
	walls   []uint8 // Wall bitmask per storage slot.
}

// New creates a fully walled maze with the given extents.
// It accepts between 1 and MaxAxes positive extents.
func New(extents ...int) (*Maze, error) {
	if err := ValidateShape(extents); err != nil {
		return nil, err
	}

	axes := len(extents)
	m := &Maze{
		shape:   Shape(extents).Clone(),
		dims:    make([]int, axes),
		strides: make([]int, axes),
	}

	size := 1
	for d := axes - 1; d >= 0; d-- {
		m.dims[d] = extents[d] + 1
		m.strides[d] = size
		size *= m.dims[d]
	}

	allWalls := uint8(1<<axes - 1)
	m.walls = make([]uint8, size)
	for i := range m.walls {
		m.walls[i] = allWalls
	}

	// The outer layer of each axis only closes that axis.
	for c := range Coordinates(m.dims) {
		var mask uint8 = allWalls
		for d := range axes {
			if c[d] == m.shape[d] {
				mask &= 1 << d
			}
		}
		m.walls[m.offset(c)] &= mask
	}

	return m, nil
}

// ValidateShape checks that extents can describe a maze.
func ValidateShape(extents []int) error {
	if len(extents) == 0 || len(extents) > MaxAxes {
		return fmt.Errorf("%w: %d axes, want 1 to %d", ErrInvalidShape, len(extents), MaxAxes)
	}
	size := 1
	for d, extent := range extents {
		if extent <= 0 {
			return fmt.Errorf("%w: axis %d has extent %d", ErrInvalidShape, d, extent)
		}
		// Storage holds extent+1 slots per axis and must stay addressable.
		if extent == math.MaxInt || size > math.MaxInt/(extent+1) {
			return fmt.Errorf("%w: extents %v overflow storage", ErrInvalidShape, extents)
		}
		size *= extent + 1
	}
	return nil
}

// Shape returns a copy of the playable extents.
func (m *Maze) Shape() Shape {
	return m.shape.Clone()
}

// Axes returns the number of axes.
func (m *Maze) Axes() int {
	return len(m.shape)
}

// Cells returns the number of playable cells.
func (m *Maze) Cells() int {
	return m.shape.Cells()
}

// InBound reports whether c is a playable cell.
func (m *Maze) InBound(c Coordinate) bool {
	if len(c) != len(m.shape) {
		return false
	}
	for d, v := range c {
		if v < 0 || v >= m.shape[d] {
			return false
		}
	}
	return true
}

// Get returns the state of the wall crossed when stepping from c along axis in dir.
func (m *Maze) Get(c Coordinate, axis int, dir Direction) (WallState, error) {
	off, err := m.normalize(c, axis, dir)
	if err != nil {
		return Wall, err
	}
	if m.walls[off]&(1<<axis) != 0 {
		return Wall, nil
	}
	return NoWall, nil
}

// Set closes or opens the wall crossed when stepping from c along axis in dir.
func (m *Maze) Set(c Coordinate, axis int, dir Direction, state WallState) error {
	off, err := m.normalize(c, axis, dir)
	if err != nil {
		return err
	}

	switch state {
	case Wall:
		m.walls[off] |= 1 << axis
	case NoWall:
		m.walls[off] &^= 1 << axis
	default:
		return fmt.Errorf("invalid wall state %d", uint8(state))
	}
	return nil
}

// Open clears the wall named by e.
func (m *Maze) Open(e Edge) error {
	return m.Set(e.Position, e.Axis, e.Direction, NoWall)
}

// Walk returns the cell reached by stepping from start along axis in dir.
// It fails with ErrBlockedMove when a wall is in the way and leaves the maze untouched.
// start must be a playable cell.
func (m *Maze) Walk(start Coordinate, axis int, dir Direction) (Coordinate, error) {
	if !m.InBound(start) {
		return nil, fmt.Errorf("%w: start %s is not a playable cell", ErrOutOfRange, start)
	}
	state, err := m.Get(start, axis, dir)
	if err != nil {
		return nil, err
	}
	if state == Wall {
		return nil, fmt.Errorf("%w: %s axis=%d %s", ErrBlockedMove, start, axis, dir)
	}

	next := start.Clone()
	next[axis] += dir.Delta()
	return next, nil
}

// Bits returns the raw wall bitmask stored at c.
// Unlike Get, c may address the outer boundary layer.
func (m *Maze) Bits(c Coordinate) (uint8, error) {
	if err := m.checkStorage(c); err != nil {
		return 0, err
	}
	return m.walls[m.offset(c)], nil
}

// Walls returns a copy of the raw storage, row-major over Shape()+1 per axis.
func (m *Maze) Walls() []uint8 {
	return append([]uint8(nil), m.walls...)
}

// normalize maps a (cell, axis, direction) triple to the storage slot owning the wall.
func (m *Maze) normalize(c Coordinate, axis int, dir Direction) (int, error) {
	if axis < 0 || axis >= len(m.shape) {
		return 0, fmt.Errorf("%w: axis %d of %d", ErrOutOfRange, axis, len(m.shape))
	}
	if dir != Forward && dir != Backward {
		return 0, fmt.Errorf("%w: direction %d", ErrOutOfRange, uint8(dir))
	}

	target := c
	if dir == Forward {
		target = c.Clone()
		if len(target) > axis {
			target[axis]++
		}
	}

	if err := m.checkStorage(target); err != nil {
		return 0, err
	}
	return m.offset(target), nil
}

// checkStorage validates c against the storage extents, sentinel layer included.
func (m *Maze) checkStorage(c Coordinate) error {
	if len(c) != len(m.dims) {
		return fmt.Errorf("%w: coordinate %s has %d axes, want %d", ErrOutOfRange, c, len(c), len(m.dims))
	}
	for d, v := range c {
		if v < 0 || v >= m.dims[d] {
			return fmt.Errorf("%w: coordinate %s", ErrOutOfRange, c)
		}
	}
	return nil
}

func (m *Maze) offset(c Coordinate) int {
	off := 0
	for d, v := range c {
		off += v * m.strides[d]
	}
	return off
}

func (m *Maze) bit(axis int, c ...int) bool {
	return m.walls[m.offset(c)]&(1<<axis) != 0
}

// String provides a textual representation of one and two dimensional mazes.
// Axis 0 runs down the rows and axis 1 across the columns.
func (m *Maze) String() string {
	switch len(m.shape) {
	case 1:
		return m.string1D()
	case 2:
		return m.string2D()
	default:
		return fmt.Sprintf("Maze%v", []int(m.shape))
	}
}

func (m *Maze) string1D() string {
	var b strings.Builder
	border := "+" + strings.Repeat("---+", m.shape[0]) + "\n"

	b.WriteString(border)
	for i := 0; i <= m.shape[0]; i++ {
		if m.bit(0, i) {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		if i < m.shape[0] {
			b.WriteString("   ")
		}
	}
	b.WriteString("\n")
	b.WriteString(border)
	return b.String()
}

func (m *Maze) string2D() string {
	var b strings.Builder
	rows, cols := m.shape[0], m.shape[1]

	for row := 0; row <= rows; row++ {
		// Wall row: boundary between row-1 and row.
		b.WriteString("+")
		for col := 0; col < cols; col++ {
			if m.bit(0, row, col) {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")

		if row == rows {
			break
		}

		// Cell row
		for col := 0; col <= cols; col++ {
			if m.bit(1, row, col) {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
			if col < cols {
				b.WriteString("   ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
