package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// Placement is one vessel to put on a fixture board
type Placement struct {
	Anchor      core.Coordinate
	Name        string
	Length      int
	Orientation core.Orientation
}

// StandardLayout is a fixed, non-overlapping placement of the default fleet.
// Every vessel lies in its own row, so the occupied cells are easy to list.
//
//	y=0  carrier      x 0..4
//	y=2  battle-ship  x 6..9
//	y=4  destroyer    x 2..4
//	y=6  submarine    x 7..9
//	y=8  patrol-boat  x 0..1
func StandardLayout() []Placement {
	return []Placement{
		{Anchor: core.Coordinate{X: 0, Y: 0}, Name: "aircraft-carrier", Length: 5, Orientation: core.Horizontal},
		{Anchor: core.Coordinate{X: 6, Y: 2}, Name: "battle-ship", Length: 4, Orientation: core.Horizontal},
		{Anchor: core.Coordinate{X: 2, Y: 4}, Name: "destroyer", Length: 3, Orientation: core.Horizontal},
		{Anchor: core.Coordinate{X: 7, Y: 6}, Name: "submarine", Length: 3, Orientation: core.Horizontal},
		{Anchor: core.Coordinate{X: 0, Y: 8}, Name: "patrol-boat", Length: 2, Orientation: core.Horizontal},
	}
}

// Place puts every placement on board and fails the test on the first error
func Place(t *testing.T, board *core.Board, placements ...Placement) {
	t.Helper()
	for _, p := range placements {
		_, err := board.PlaceVessel(p.Anchor, p.Name, p.Length, p.Orientation)
		require.NoError(t, err, "place %s at %s", p.Name, p.Anchor)
	}
}

// OccupiedCells lists the cells covered by placements, in placement order
func OccupiedCells(placements ...Placement) []core.Coordinate {
	var cells []core.Coordinate
	for _, p := range placements {
		cells = append(cells, core.Footprint(p.Anchor, p.Length, p.Orientation)...)
	}
	return cells
}
