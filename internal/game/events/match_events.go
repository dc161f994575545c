package events

import (
	"time"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted    = "match.started"
	TypeMatchEnded      = "match.ended"
	TypeTurnStarted     = "turn.started"
	TypeVesselPlaced    = "vessel.placed"
	TypeShotFired       = "shot.fired"
	TypeVesselSunk      = "vessel.sunk"
	TypeFleetDestroyed  = "fleet.destroyed"
	TypeStateTransition = "state.transition"
)

// MatchStartedEvent is published when both fleets are placed and firing begins
type MatchStartedEvent struct {
	BaseEvent
	Players     []string `json:"players"`
	FirstPlayer int      `json:"first_player"`
}

// NewMatchStartedEvent creates a new MatchStartedEvent
func NewMatchStartedEvent(matchID string, players []string, firstPlayer int) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:   newBase(TypeMatchStarted, matchID),
		Players:     players,
		FirstPlayer: firstPlayer,
	}
}

// MatchEndedEvent is published once a fleet has been destroyed
type MatchEndedEvent struct {
	BaseEvent
	Winner    int           `json:"winner"`
	FinalTurn int           `json:"final_turn"`
	Duration  time.Duration `json:"duration"`
}

// NewMatchEndedEvent creates a new MatchEndedEvent
func NewMatchEndedEvent(matchID string, winner, finalTurn int, duration time.Duration) *MatchEndedEvent {
	return &MatchEndedEvent{
		BaseEvent: newBase(TypeMatchEnded, matchID),
		Winner:    winner,
		FinalTurn: finalTurn,
		Duration:  duration,
	}
}

// TurnStartedEvent is published before the current player fires
type TurnStartedEvent struct {
	BaseEvent
	Turn   int `json:"turn"`
	Player int `json:"player"`
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(matchID string, turn, player int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: newBase(TypeTurnStarted, matchID),
		Turn:      turn,
		Player:    player,
	}
}

// VesselPlacedEvent is published for every vessel put on a board during placement
type VesselPlacedEvent struct {
	BaseEvent
	Player      int               `json:"player"`
	Vessel      string            `json:"vessel"`
	Length      int               `json:"length"`
	Cells       []core.Coordinate `json:"cells"`
	Orientation string            `json:"orientation"`
}

// NewVesselPlacedEvent creates a new VesselPlacedEvent
func NewVesselPlacedEvent(matchID string, player int, v core.Vessel) *VesselPlacedEvent {
	return &VesselPlacedEvent{
		BaseEvent:   newBase(TypeVesselPlaced, matchID),
		Player:      player,
		Vessel:      v.Name,
		Length:      v.Length,
		Cells:       v.Cells(),
		Orientation: v.Orientation.String(),
	}
}

// ShotFiredEvent is published after every resolved attack, including repeats
type ShotFiredEvent struct {
	BaseEvent
	Turn     int              `json:"turn"`
	Attacker int              `json:"attacker"`
	Target   core.Coordinate  `json:"target"`
	Outcome  core.OutcomeKind `json:"outcome"`
	Vessel   string           `json:"vessel,omitempty"`
}

// NewShotFiredEvent creates a new ShotFiredEvent
func NewShotFiredEvent(matchID string, turn, attacker int, outcome core.AttackOutcome) *ShotFiredEvent {
	return &ShotFiredEvent{
		BaseEvent: newBase(TypeShotFired, matchID),
		Turn:      turn,
		Attacker:  attacker,
		Target:    outcome.Coord,
		Outcome:   outcome.Kind,
		Vessel:    outcome.VesselName,
	}
}

// VesselSunkEvent is published when a shot sinks a vessel
type VesselSunkEvent struct {
	BaseEvent
	Turn     int    `json:"turn"`
	Attacker int    `json:"attacker"`
	Owner    int    `json:"owner"`
	Vessel   string `json:"vessel"`
}

// NewVesselSunkEvent creates a new VesselSunkEvent
func NewVesselSunkEvent(matchID string, turn, attacker, owner int, vessel string) *VesselSunkEvent {
	return &VesselSunkEvent{
		BaseEvent: newBase(TypeVesselSunk, matchID),
		Turn:      turn,
		Attacker:  attacker,
		Owner:     owner,
		Vessel:    vessel,
	}
}

// FleetDestroyedEvent is published when the last vessel on a board sinks
type FleetDestroyedEvent struct {
	BaseEvent
	Turn        int `json:"turn"`
	Owner       int `json:"owner"`
	DestroyedBy int `json:"destroyed_by"`
}

// NewFleetDestroyedEvent creates a new FleetDestroyedEvent
func NewFleetDestroyedEvent(matchID string, turn, owner, destroyedBy int) *FleetDestroyedEvent {
	return &FleetDestroyedEvent{
		BaseEvent:   newBase(TypeFleetDestroyed, matchID),
		Turn:        turn,
		Owner:       owner,
		DestroyedBy: destroyedBy,
	}
}

// StateTransitionEvent is published when the match state machine changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(matchID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, matchID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
