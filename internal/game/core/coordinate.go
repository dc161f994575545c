package core

import "fmt"

// BoardSize is the width and height of every board
const BoardSize = 10

// Coordinate addresses one cell. Y grows downward, so "up" is Y-1.
type Coordinate struct {
	X, Y int
}

// orthogonal lists unit steps in search order: up, right, down, left
var orthogonal = [4]Coordinate{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// FromIndex maps 0..BoardSize²-1 onto the board column by column, the same
// order Board walks grid[x][y]
func FromIndex(idx int) Coordinate {
	return Coordinate{X: idx / BoardSize, Y: idx % BoardSize}
}

// ToIndex is the inverse of FromIndex
func (c Coordinate) ToIndex() int {
	return c.X*BoardSize + c.Y
}

// InBounds reports whether c lies on a BoardSize x BoardSize board
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// IsAdjacentTo reports whether other is exactly one orthogonal step away
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	d := other.Sub(c)
	return abs(d.X)+abs(d.Y) == 1
}

// Neighbors returns the four orthogonal neighbours in search order, on the
// board or not
func (c Coordinate) Neighbors() []Coordinate {
	out := make([]Coordinate, len(orthogonal))
	for i, step := range orthogonal {
		out[i] = c.Add(step)
	}
	return out
}

// ValidNeighbors is Neighbors without the cells that fall off the board
func (c Coordinate) ValidNeighbors() []Coordinate {
	out := make([]Coordinate, 0, len(orthogonal))
	for _, step := range orthogonal {
		if n := c.Add(step); n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// Add offsets c by other, typically a unit step
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns the offset from other to c
func (c Coordinate) Sub(other Coordinate) Coordinate {
	return Coordinate{X: c.X - other.X, Y: c.Y - other.Y}
}

// Neg reverses a step
func (c Coordinate) Neg() Coordinate {
	return Coordinate{X: -c.X, Y: -c.Y}
}

// String formats c as "(x,y)"
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// AxisStep returns the unit step pointing from c toward other when both lie on
// the same row or column. ok is false for identical or off-axis coordinates.
func (c Coordinate) AxisStep(other Coordinate) (step Coordinate, ok bool) {
	d := other.Sub(c)
	switch {
	case d.X == 0 && d.Y == 0:
		return Coordinate{}, false
	case d.X == 0:
		return Coordinate{X: 0, Y: sign(d.Y)}, true
	case d.Y == 0:
		return Coordinate{X: sign(d.X), Y: 0}, true
	default:
		return Coordinate{}, false
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
