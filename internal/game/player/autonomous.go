package player

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// DefaultMaxPlacementAttempts bounds random placement tries per vessel before
// PlaceFleet falls back to scanning every position
const DefaultMaxPlacementAttempts = 200

// AutonomousConfig configures a computer-controlled combatant
type AutonomousConfig struct {
	Name                 string
	Number               int
	Rng                  *rand.Rand
	Fleet                []FleetSpec
	MaxPlacementAttempts int
	Logger               *zerolog.Logger
}

// Autonomous is a combatant that places its own fleet and picks targets with
// a search/hunt strategy
type Autonomous struct {
	identity
	rng                  *rand.Rand
	fleet                []FleetSpec
	maxPlacementAttempts int
	state                TargetingState
	logger               zerolog.Logger
}

// NewAutonomous creates a computer combatant with an empty board in Search mode
func NewAutonomous(cfg AutonomousConfig) *Autonomous {
	if cfg.Name == "" {
		cfg.Name = "Computer"
	}
	if cfg.Number == 0 {
		cfg.Number = 2
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(cfg.Fleet) == 0 {
		cfg.Fleet = DefaultFleet()
	}
	if cfg.MaxPlacementAttempts <= 0 {
		cfg.MaxPlacementAttempts = DefaultMaxPlacementAttempts
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = log.Logger
	}

	return &Autonomous{
		identity:             newIdentity(cfg.Name, cfg.Number, logger),
		rng:                  cfg.Rng,
		fleet:                cfg.Fleet,
		maxPlacementAttempts: cfg.MaxPlacementAttempts,
		state:                Search{},
		logger:               logger.With().Str("component", "autonomous").Int("player", cfg.Number).Logger(),
	}
}

// State returns a copy of the current targeting state
func (a *Autonomous) State() TargetingState {
	if h, ok := a.state.(*Hunt); ok {
		return h.clone()
	}
	return a.state
}

// Reset clears targeting state and the board for a new game
func (a *Autonomous) Reset() {
	a.state = Search{}
	a.board.Reset()
}

// TakeTurn makes exactly one attack: a hunt shot while a target is being
// pursued, otherwise a random move
func (a *Autonomous) TakeTurn(opponent Combatant) (core.AttackOutcome, error) {
	if _, hunting := a.state.(*Hunt); hunting {
		return a.ContinueHunt(opponent)
	}
	return a.MakeRandomMove(opponent)
}

// MakeRandomMove attacks a uniformly random unshot cell on the opponent's board.
// A non-sinking hit while searching starts a hunt.
func (a *Autonomous) MakeRandomMove(opponent Combatant) (core.AttackOutcome, error) {
	if opponent == nil {
		return core.AttackOutcome{}, core.ErrInvalidPlayer
	}

	legal := opponent.Board().UnshotCells()
	if len(legal) == 0 {
		return core.AttackOutcome{}, core.WrapAttackError(a.number, core.Coordinate{}, core.ErrNoLegalMoves)
	}

	target := legal[a.rng.Intn(len(legal))]
	outcome, err := a.Attack(target, opponent)
	if err != nil {
		return outcome, err
	}

	a.observeSearch(outcome, opponent.Board())
	return outcome, nil
}

func (a *Autonomous) observeSearch(outcome core.AttackOutcome, board *core.Board) {
	switch outcome.Kind {
	case core.OutcomeSunk:
		a.endHunt(outcome)
	case core.OutcomeHit:
		if _, hunting := a.state.(*Hunt); hunting {
			return
		}
		h := newHunt(outcome.Coord, board)
		a.state = h
		a.logger.Debug().
			Str("first_hit", outcome.Coord.String()).
			Int("queued", len(h.Queue)).
			Msg("Search -> Hunt")
	}
}

// ContinueHunt makes the next hunt shot. With no active hunt, or once every
// candidate is exhausted, it falls back to a random move.
func (a *Autonomous) ContinueHunt(opponent Combatant) (core.AttackOutcome, error) {
	h, hunting := a.state.(*Hunt)
	if !hunting {
		return a.MakeRandomMove(opponent)
	}
	if opponent == nil {
		return core.AttackOutcome{}, core.ErrInvalidPlayer
	}

	board := opponent.Board()
	target, directional, found := h.nextTarget(board)
	if !found {
		a.logger.Debug().
			Str("first_hit", h.FirstHit.String()).
			Msg("Hunt candidates exhausted, falling back to search")
		a.state = Search{}
		return a.MakeRandomMove(opponent)
	}

	outcome, err := a.Attack(target, opponent)
	if err != nil {
		return outcome, err
	}

	switch outcome.Kind {
	case core.OutcomeSunk:
		a.endHunt(outcome)
	case core.OutcomeHit:
		h.recordHit(target, board)
	default:
		wasFlipped := h.Flipped
		h.recordMiss(directional, board)
		if h.Flipped && !wasFlipped {
			a.logger.Debug().
				Str("first_hit", h.FirstHit.String()).
				Msg("Directional shot missed, flipping to the other side")
		}
	}

	return outcome, nil
}

func (a *Autonomous) endHunt(outcome core.AttackOutcome) {
	if _, hunting := a.state.(*Hunt); hunting {
		a.logger.Debug().
			Str("vessel", outcome.VesselName).
			Msg("Hunt -> Search")
	}
	a.state = Search{}
}

// PlaceFleet places every vessel of the configured fleet at random on the
// combatant's own board. Each vessel gets MaxPlacementAttempts random tries
// before the search widens to every anchor and orientation in shuffled order.
func (a *Autonomous) PlaceFleet() error {
	for _, spec := range a.fleet {
		if err := a.placeVessel(spec); err != nil {
			return err
		}
	}

	a.logger.Debug().Int("vessels", len(a.fleet)).Msg("Fleet placed")
	return nil
}

func (a *Autonomous) placeVessel(spec FleetSpec) error {
	empty := a.board.EmptyCells()

	for attempt := 0; attempt < a.maxPlacementAttempts && len(empty) > 0; attempt++ {
		anchor := empty[a.rng.Intn(len(empty))]
		orientation := core.Orientation(a.rng.Intn(2))

		_, err := a.board.PlaceVessel(anchor, spec.Name, spec.Length, orientation)
		if err == nil {
			return nil
		}
		if !errors.Is(err, core.ErrPlacementRejected) {
			return err
		}
	}

	a.logger.Warn().
		Str("vessel", spec.Name).
		Int("attempts", a.maxPlacementAttempts).
		Msg("Random placement exhausted, scanning every position")

	type candidate struct {
		anchor      core.Coordinate
		orientation core.Orientation
	}
	candidates := make([]candidate, 0, core.BoardSize*core.BoardSize*2)
	for i := 0; i < core.BoardSize*core.BoardSize; i++ {
		c := core.FromIndex(i)
		candidates = append(candidates,
			candidate{c, core.Vertical},
			candidate{c, core.Horizontal})
	}
	a.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, c := range candidates {
		if a.board.CanPlace(c.anchor, spec.Length, c.orientation) {
			_, err := a.board.PlaceVessel(c.anchor, spec.Name, spec.Length, c.orientation)
			return err
		}
	}

	return core.WrapPlacementError(spec.Name, core.Coordinate{}, core.ErrFleetPlacementFailed)
}
