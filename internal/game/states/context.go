package states

import (
	"time"

	"github.com/rs/zerolog"
)

// NoWinner marks a match that has not been decided
const NoWinner = -1

// MatchContext is the match data that states read and update on transitions
type MatchContext struct {
	MatchID string
	Logger  zerolog.Logger

	// PlayerCount is the number of combatants seated in the match
	PlayerCount int

	// FleetSize is how many vessels each board must hold before firing starts
	FleetSize int

	// PlacedVessels counts vessels placed so far, keyed by player number
	PlacedVessels map[int]int

	StartTime time.Time
	EndTime   time.Time

	// Winner is the winning player number, or NoWinner
	Winner int

	// Error holds the failure that caused a transition to PhaseError
	Error error
}

// NewMatchContext creates a context for a two-player match
func NewMatchContext(matchID string, fleetSize int, logger zerolog.Logger) *MatchContext {
	return &MatchContext{
		MatchID:       matchID,
		Logger:        logger.With().Str("match_id", matchID).Logger(),
		PlayerCount:   2,
		FleetSize:     fleetSize,
		PlacedVessels: make(map[int]int),
		Winner:        NoWinner,
	}
}

// FleetsReady reports whether every player has placed a full fleet
func (mc *MatchContext) FleetsReady() bool {
	if mc.PlayerCount < 1 || len(mc.PlacedVessels) < mc.PlayerCount {
		return false
	}
	for _, placed := range mc.PlacedVessels {
		if placed < mc.FleetSize {
			return false
		}
	}
	return true
}

// Elapsed returns the firing time so far, or the total once the match ended
func (mc *MatchContext) Elapsed() time.Duration {
	if mc.StartTime.IsZero() {
		return 0
	}
	if !mc.EndTime.IsZero() {
		return mc.EndTime.Sub(mc.StartTime)
	}
	return time.Since(mc.StartTime)
}
