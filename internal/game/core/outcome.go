package core

import "fmt"

// OutcomeKind classifies the result of an attack
type OutcomeKind int

const (
	OutcomeAlreadyShot OutcomeKind = iota
	OutcomeMiss
	OutcomeHit
	OutcomeSunk
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAlreadyShot:
		return "already_shot"
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	case OutcomeSunk:
		return "sunk"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// AttackOutcome is the result of Board.ReceiveAttack.
// VesselName is set only for Hit and Sunk. FleetDestroyed is set only on the
// Sunk outcome that removed the last active vessel.
type AttackOutcome struct {
	Kind           OutcomeKind
	Coord          Coordinate
	VesselName     string
	FleetDestroyed bool
}

// IsHit reports whether the attack struck a vessel, including the sinking blow
func (o AttackOutcome) IsHit() bool {
	return o.Kind == OutcomeHit || o.Kind == OutcomeSunk
}

func (o AttackOutcome) String() string {
	switch o.Kind {
	case OutcomeHit, OutcomeSunk:
		return fmt.Sprintf("%s %s at %s", o.Kind, o.VesselName, o.Coord)
	default:
		return fmt.Sprintf("%s at %s", o.Kind, o.Coord)
	}
}
