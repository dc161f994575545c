package states

import "fmt"

// Phase is the lifecycle phase of a match
type Phase int

const (
	// PhaseInitializing - match object created, boards empty
	PhaseInitializing Phase = iota

	// PhasePlacement - combatants are placing their fleets
	PhasePlacement

	// PhaseRunning - players alternate shots
	PhaseRunning

	// PhaseEnded - a fleet has been destroyed
	PhaseEnded

	// PhaseError - an unrecoverable failure, waiting for reset
	PhaseError

	// PhaseReset - boards and targeting state are cleared
	PhaseReset
)

var allPhases = []Phase{
	PhaseInitializing, PhasePlacement, PhaseRunning, PhaseEnded, PhaseError, PhaseReset,
}

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhasePlacement:
		return "Placement"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	case PhaseReset:
		return "Reset"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if nothing but a reset can follow this phase
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// AcceptsShots returns true if attacks may be resolved in this phase
func (p Phase) AcceptsShots() bool {
	return p == PhaseRunning
}

// AcceptsPlacement returns true if vessels may be placed in this phase
func (p Phase) AcceptsPlacement() bool {
	return p == PhasePlacement
}

// AllowedTransitions returns the phases reachable from p
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseInitializing:
		return []Phase{PhasePlacement, PhaseError}
	case PhasePlacement:
		return []Phase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []Phase{PhaseEnded, PhaseError}
	case PhaseEnded, PhaseError:
		return []Phase{PhaseReset}
	case PhaseReset:
		return []Phase{PhaseInitializing}
	default:
		return []Phase{}
	}
}

func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a phase name back to a Phase
func ParsePhase(s string) (Phase, error) {
	for _, p := range allPhases {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseInitializing, fmt.Errorf("unknown phase %q", s)
}
