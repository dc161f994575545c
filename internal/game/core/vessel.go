package core

import "fmt"

const (
	MinVesselLength = 2
	MaxVesselLength = 5
)

// Orientation is the axis a vessel lies along
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Vessel is one ship on a board. It is owned by the Board that placed it;
// cells refer to it by its ID.
type Vessel struct {
	ID          int
	Name        string
	Length      int
	Orientation Orientation

	hits  int
	sunk  bool
	cells []Coordinate
}

func newVessel(id int, name string, length int, orientation Orientation, cells []Coordinate) *Vessel {
	return &Vessel{
		ID:          id,
		Name:        name,
		Length:      length,
		Orientation: orientation,
		cells:       cells,
	}
}

// Hit records one hit and returns the new hit count.
func (v *Vessel) Hit() int {
	v.hits++
	if v.hits >= v.Length {
		v.sunk = true
	}
	return v.hits
}

// Hits is the number of distinct cells struck so far
func (v Vessel) Hits() int { return v.hits }

// IsSunk reports whether every cell has been hit
func (v Vessel) IsSunk() bool { return v.sunk }

// Cells returns a copy of the coordinates the vessel occupies
func (v Vessel) Cells() []Coordinate {
	cells := make([]Coordinate, len(v.cells))
	copy(cells, v.cells)
	return cells
}

// ValidLength reports whether length is a legal vessel length
func ValidLength(length int) bool {
	return length >= MinVesselLength && length <= MaxVesselLength
}
