package player

import (
	"fmt"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// FleetSpec describes one vessel a combatant must place during setup
type FleetSpec struct {
	Name   string
	Length int
}

// DefaultFleet returns the standard five-vessel fleet (5, 4, 3, 3, 2)
func DefaultFleet() []FleetSpec {
	return []FleetSpec{
		{Name: "aircraft-carrier", Length: 5},
		{Name: "battle-ship", Length: 4},
		{Name: "destroyer", Length: 3},
		{Name: "submarine", Length: 3},
		{Name: "patrol-boat", Length: 2},
	}
}

// ValidateFleet checks that every vessel has a name and a legal length and
// that the fleet can fit on a board
func ValidateFleet(fleet []FleetSpec) error {
	if len(fleet) == 0 {
		return fmt.Errorf("fleet must contain at least one vessel")
	}

	cells := 0
	for i, spec := range fleet {
		if spec.Name == "" {
			return fmt.Errorf("fleet[%d]: vessel name is empty", i)
		}
		if !core.ValidLength(spec.Length) {
			return fmt.Errorf("fleet[%d] %s: %w: %d", i, spec.Name, core.ErrInvalidLength, spec.Length)
		}
		cells += spec.Length
	}

	if cells > core.BoardSize*core.BoardSize {
		return fmt.Errorf("fleet occupies %d cells, board has %d", cells, core.BoardSize*core.BoardSize)
	}
	return nil
}
