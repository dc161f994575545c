package states

import (
	"fmt"
	"time"
)

// InitializingState is the phase before fleets are placed
type InitializingState struct{}

func NewInitializingState() State { return &InitializingState{} }

func (s *InitializingState) Phase() Phase { return PhaseInitializing }

func (s *InitializingState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Exiting Initializing state")
	return nil
}

func (s *InitializingState) Validate(*MatchContext) error { return nil }

// PlacementState is the phase where both boards receive their fleets
type PlacementState struct{}

func NewPlacementState() State { return &PlacementState{} }

func (s *PlacementState) Phase() Phase { return PhasePlacement }

func (s *PlacementState) Enter(ctx *MatchContext) error {
	for k := range ctx.PlacedVessels {
		delete(ctx.PlacedVessels, k)
	}
	ctx.Logger.Info().
		Int("fleet_size", ctx.FleetSize).
		Msg("Placement opened")
	return nil
}

func (s *PlacementState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().
		Interface("placed", ctx.PlacedVessels).
		Msg("Placement closed")
	return nil
}

func (s *PlacementState) Validate(ctx *MatchContext) error {
	if ctx.PlayerCount != 2 {
		return fmt.Errorf("a match needs exactly 2 players, got %d", ctx.PlayerCount)
	}
	if ctx.FleetSize < 1 {
		return fmt.Errorf("fleet size must be at least 1, got %d", ctx.FleetSize)
	}
	return nil
}

// RunningState is the firing phase
type RunningState struct{}

func NewRunningState() State { return &RunningState{} }

func (s *RunningState) Phase() Phase { return PhaseRunning }

func (s *RunningState) Enter(ctx *MatchContext) error {
	ctx.StartTime = time.Now()
	ctx.EndTime = time.Time{}
	ctx.Logger.Info().
		Time("start_time", ctx.StartTime).
		Msg("Match started")
	return nil
}

func (s *RunningState) Exit(ctx *MatchContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Dur("elapsed", ctx.Elapsed()).
		Msg("Exiting running state")
	return nil
}

func (s *RunningState) Validate(ctx *MatchContext) error {
	if !ctx.FleetsReady() {
		return fmt.Errorf("fleets not ready: placed %v of %d vessels each", ctx.PlacedVessels, ctx.FleetSize)
	}
	return nil
}

// EndedState is a decided match
type EndedState struct{}

func NewEndedState() State { return &EndedState{} }

func (s *EndedState) Phase() Phase { return PhaseEnded }

func (s *EndedState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Dur("match_duration", ctx.Elapsed()).
		Msg("Match ended")
	return nil
}

func (s *EndedState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Exiting ended state")
	return nil
}

func (s *EndedState) Validate(ctx *MatchContext) error {
	if ctx.Winner == NoWinner {
		return fmt.Errorf("ended state requires a winner")
	}
	return nil
}

// ErrorState holds a failed match until it is reset
type ErrorState struct{}

func NewErrorState() State { return &ErrorState{} }

func (s *ErrorState) Phase() Phase { return PhaseError }

func (s *ErrorState) Enter(ctx *MatchContext) error {
	ctx.Logger.Error().
		Err(ctx.Error).
		Msg("Match entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *MatchContext) error {
	ctx.Logger.Info().Msg("Recovering from error state")
	ctx.Error = nil
	return nil
}

func (s *ErrorState) Validate(ctx *MatchContext) error {
	if ctx.Error == nil {
		return fmt.Errorf("error state requires an error in context")
	}
	return nil
}

// ResetState clears per-match data so the match can be played again
type ResetState struct{}

func NewResetState() State { return &ResetState{} }

func (s *ResetState) Phase() Phase { return PhaseReset }

func (s *ResetState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().Msg("Resetting match")

	ctx.StartTime = time.Time{}
	ctx.EndTime = time.Time{}
	ctx.Winner = NoWinner
	ctx.Error = nil
	for k := range ctx.PlacedVessels {
		delete(ctx.PlacedVessels, k)
	}
	return nil
}

func (s *ResetState) Exit(ctx *MatchContext) error {
	ctx.Logger.Debug().Msg("Match reset complete")
	return nil
}

func (s *ResetState) Validate(*MatchContext) error { return nil }
