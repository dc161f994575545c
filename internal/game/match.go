package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
	"github.com/mitchelldurbincs/battleship/internal/game/events"
	"github.com/mitchelldurbincs/battleship/internal/game/player"
	"github.com/mitchelldurbincs/battleship/internal/game/states"
)

var (
	ErrWrongPhase        = errors.New("operation not allowed in this phase")
	ErrFleetComplete     = errors.New("fleet already placed")
	ErrTurnLimitReached  = errors.New("turn limit reached")
	ErrAwaitingHumanMove = errors.New("current player is not autonomous")
)

// MatchConfig configures a two-player match
type MatchConfig struct {
	// ID defaults to a random UUID
	ID string

	Players [2]player.Combatant

	// Fleet each board must hold before firing starts. Defaults to player.DefaultFleet().
	Fleet []player.FleetSpec

	// FirstPlayer is the number of the player who fires first. Defaults to Players[0].
	FirstPlayer int

	// MaxTurns stops Run with ErrTurnLimitReached once exceeded. Zero means no limit.
	MaxTurns int

	// EventBus defaults to a new bus logging through Logger
	EventBus *events.EventBus

	// Logger defaults to the global zerolog logger
	Logger *zerolog.Logger
}

// Match alternates attacks between two combatants and decides the winner.
// It is not safe for concurrent use.
type Match struct {
	id       string
	players  [2]player.Combatant
	fleet    []player.FleetSpec
	first    int
	current  int
	turn     int
	maxTurns int
	winner   int
	stats    [2]CombatantStats

	bus     *events.EventBus
	machine *states.StateMachine
	context *states.MatchContext
	logger  zerolog.Logger
}

// NewMatch validates cfg and returns a match in PhaseInitializing
func NewMatch(cfg MatchConfig) (*Match, error) {
	for i, p := range cfg.Players {
		if p == nil {
			return nil, fmt.Errorf("players[%d]: %w", i, core.ErrInvalidPlayer)
		}
	}
	if cfg.Players[0].Number() == cfg.Players[1].Number() {
		return nil, fmt.Errorf("both players have number %d: %w", cfg.Players[0].Number(), core.ErrInvalidPlayer)
	}

	if len(cfg.Fleet) == 0 {
		cfg.Fleet = player.DefaultFleet()
	}
	if err := player.ValidateFleet(cfg.Fleet); err != nil {
		return nil, fmt.Errorf("invalid fleet: %w", err)
	}

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	var base zerolog.Logger
	if cfg.Logger != nil {
		base = *cfg.Logger
	} else {
		base = log.Logger
	}
	logger := base.With().Str("component", "match").Str("match_id", cfg.ID).Logger()

	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBusWithLogger(base)
	}

	m := &Match{
		id:       cfg.ID,
		players:  cfg.Players,
		fleet:    cfg.Fleet,
		maxTurns: cfg.MaxTurns,
		winner:   -1,
		bus:      cfg.EventBus,
		logger:   logger,
	}

	switch cfg.FirstPlayer {
	case 0, cfg.Players[0].Number():
		m.first = 0
	case cfg.Players[1].Number():
		m.first = 1
	default:
		return nil, fmt.Errorf("first player %d is not seated: %w", cfg.FirstPlayer, core.ErrInvalidPlayer)
	}
	m.current = m.first
	m.resetStats()

	m.context = states.NewMatchContext(cfg.ID, len(cfg.Fleet), base)
	m.machine = states.NewStateMachine(m.context, m.bus)

	return m, nil
}

func (m *Match) ID() string                 { return m.id }
func (m *Match) EventBus() *events.EventBus { return m.bus }
func (m *Match) Phase() states.Phase        { return m.machine.CurrentPhase() }
func (m *Match) Fleet() []player.FleetSpec  { return append([]player.FleetSpec(nil), m.fleet...) }

// Turn is the 1-based number of the shot being waited on; zero before Start
func (m *Match) Turn() int { return m.turn }

func (m *Match) IsOver() bool { return m.Phase() == states.PhaseEnded }

// Players returns both combatants in seating order
func (m *Match) Players() [2]player.Combatant { return m.players }

func (m *Match) CurrentPlayer() player.Combatant { return m.players[m.current] }

func (m *Match) Opponent() player.Combatant { return m.players[1-m.current] }

// Winner returns the winning combatant once the match has ended
func (m *Match) Winner() (player.Combatant, bool) {
	if m.winner < 0 {
		return nil, false
	}
	return m.players[m.winner], true
}

// OpenPlacement moves the match to PhasePlacement and lets every autonomous
// combatant with an empty board place its fleet
func (m *Match) OpenPlacement() error {
	if err := m.machine.TransitionTo(states.PhasePlacement, "placement opened"); err != nil {
		return err
	}

	for _, p := range m.players {
		if agent, ok := p.(player.Agent); ok && len(p.Board().Vessels()) == 0 {
			if err := agent.PlaceFleet(); err != nil {
				wrapped := core.NewGameError(0, p.Number(), "place fleet", err)
				m.fail(wrapped, "fleet placement failed")
				return wrapped
			}
		}

		for _, v := range p.Board().Vessels() {
			m.bus.Publish(events.NewVesselPlacedEvent(m.id, p.Number(), v))
		}
		m.context.PlacedVessels[p.Number()] = len(p.Board().Vessels())
	}

	return nil
}

// NextVessel returns the next fleet entry playerNumber still has to place
func (m *Match) NextVessel(playerNumber int) (player.FleetSpec, bool) {
	p, err := m.seat(playerNumber)
	if err != nil {
		return player.FleetSpec{}, false
	}
	placed := len(p.Board().Vessels())
	if placed >= len(m.fleet) {
		return player.FleetSpec{}, false
	}
	return m.fleet[placed], true
}

// PlaceVessel places playerNumber's next fleet vessel. A rejected placement
// (errors.Is core.ErrPlacementRejected) leaves the board unchanged so the
// caller can ask again.
func (m *Match) PlaceVessel(playerNumber int, anchor core.Coordinate, orientation core.Orientation) (core.Vessel, error) {
	if !m.Phase().AcceptsPlacement() {
		return core.Vessel{}, fmt.Errorf("place vessel in %s: %w", m.Phase(), ErrWrongPhase)
	}

	p, err := m.seat(playerNumber)
	if err != nil {
		return core.Vessel{}, err
	}

	spec, ok := m.NextVessel(playerNumber)
	if !ok {
		return core.Vessel{}, fmt.Errorf("player %d: %w", playerNumber, ErrFleetComplete)
	}

	v, err := p.Board().PlaceVessel(anchor, spec.Name, spec.Length, orientation)
	if err != nil {
		return core.Vessel{}, err
	}

	m.context.PlacedVessels[playerNumber] = len(p.Board().Vessels())
	m.bus.Publish(events.NewVesselPlacedEvent(m.id, playerNumber, v))
	return v, nil
}

// Start begins firing. Every board must hold its full fleet.
func (m *Match) Start() error {
	if err := m.machine.TransitionTo(states.PhaseRunning, "fleets placed"); err != nil {
		return err
	}

	m.turn = 1
	m.current = m.first

	m.bus.Publish(events.NewMatchStartedEvent(
		m.id,
		[]string{m.players[0].Name(), m.players[1].Name()},
		m.players[m.first].Number(),
	))
	m.bus.Publish(events.NewTurnStartedEvent(m.id, m.turn, m.CurrentPlayer().Number()))

	m.logger.Info().
		Str("first_player", m.CurrentPlayer().Name()).
		Int("fleet_size", len(m.fleet)).
		Msg("Match running")
	return nil
}

// Fire resolves a shot chosen outside the engine for the current player. An
// AlreadyShot outcome keeps the turn; anything else passes it.
func (m *Match) Fire(target core.Coordinate) (core.AttackOutcome, error) {
	if err := m.requireRunning(); err != nil {
		return core.AttackOutcome{}, err
	}
	if _, ok := m.CurrentPlayer().(player.Agent); ok {
		return core.AttackOutcome{}, core.NewGameError(m.turn, m.CurrentPlayer().Number(), "fire", core.ErrNotYourTurn)
	}

	attacker := m.CurrentPlayer()
	outcome, err := attacker.Attack(target, m.Opponent())
	if err != nil {
		// Bad input from outside; the turn stays with the same player
		return outcome, core.NewGameError(m.turn, attacker.Number(), "fire", err)
	}

	return outcome, m.resolve(attacker, outcome)
}

// Step lets the current autonomous combatant take exactly one turn
func (m *Match) Step() (core.AttackOutcome, error) {
	if err := m.requireRunning(); err != nil {
		return core.AttackOutcome{}, err
	}

	attacker := m.CurrentPlayer()
	agent, ok := attacker.(player.Agent)
	if !ok {
		return core.AttackOutcome{}, ErrAwaitingHumanMove
	}

	outcome, err := agent.TakeTurn(m.Opponent())
	if err != nil {
		wrapped := core.NewGameError(m.turn, attacker.Number(), "take turn", err)
		m.fail(wrapped, "autonomous turn failed")
		return outcome, wrapped
	}

	if outcome.Kind == core.OutcomeAlreadyShot {
		// Agents never pick shot cells, so a repeat would stall the match
		m.logger.Warn().
			Int("player", attacker.Number()).
			Str("target", outcome.Coord.String()).
			Msg("Autonomous combatant repeated a shot")
	}

	return outcome, m.resolve(attacker, outcome)
}

// Run steps autonomous combatants until the match ends, a human has to
// move, or ctx is cancelled. ctx is checked between turns only.
func (m *Match) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.IsOver() {
			return nil
		}
		if _, ok := m.CurrentPlayer().(player.Agent); !ok {
			return ErrAwaitingHumanMove
		}
		if m.maxTurns > 0 && m.turn > m.maxTurns {
			err := core.NewGameError(m.turn, 0, "run", ErrTurnLimitReached)
			m.fail(err, "turn limit reached")
			return err
		}

		if _, err := m.Step(); err != nil {
			return err
		}
	}
}

func (m *Match) resolve(attacker player.Combatant, outcome core.AttackOutcome) error {
	idx := m.current
	m.stats[idx].record(outcome)

	m.bus.Publish(events.NewShotFiredEvent(m.id, m.turn, attacker.Number(), outcome))
	m.logger.Debug().
		Int("turn", m.turn).
		Int("player", attacker.Number()).
		Str("outcome", outcome.String()).
		Msg("Shot resolved")

	if outcome.Kind == core.OutcomeSunk {
		m.bus.Publish(events.NewVesselSunkEvent(m.id, m.turn, attacker.Number(), m.Opponent().Number(), outcome.VesselName))
	}

	if outcome.FleetDestroyed {
		return m.finish(idx)
	}

	if outcome.Kind == core.OutcomeAlreadyShot {
		if _, ok := attacker.(player.Agent); !ok {
			return nil
		}
	}

	m.current = 1 - m.current
	m.turn++
	m.bus.Publish(events.NewTurnStartedEvent(m.id, m.turn, m.CurrentPlayer().Number()))
	return nil
}

func (m *Match) finish(winnerIdx int) error {
	winner := m.players[winnerIdx]
	loser := m.players[1-winnerIdx]

	m.winner = winnerIdx
	m.context.Winner = winner.Number()
	m.bus.Publish(events.NewFleetDestroyedEvent(m.id, m.turn, loser.Number(), winner.Number()))

	if err := m.machine.TransitionTo(states.PhaseEnded, fmt.Sprintf("%s destroyed the enemy fleet", winner.Name())); err != nil {
		return err
	}

	m.bus.Publish(events.NewMatchEndedEvent(m.id, winner.Number(), m.turn, m.context.Elapsed()))
	return nil
}

// Reset clears both boards, targeting state and statistics after a match has
// ended or failed, returning it to PhaseInitializing with the same players
func (m *Match) Reset() error {
	if !m.Phase().IsTerminal() {
		return fmt.Errorf("reset in %s: %w", m.Phase(), ErrWrongPhase)
	}

	for _, p := range m.players {
		if agent, ok := p.(player.Agent); ok {
			agent.Reset()
		} else {
			p.Board().Reset()
		}
	}

	m.turn = 0
	m.current = m.first
	m.winner = -1
	m.resetStats()

	return m.machine.Reset()
}

// fail moves the match to PhaseError. The caller returns cause either way,
// so a refused transition is only logged.
func (m *Match) fail(cause error, reason string) {
	if err := m.machine.Fail(cause, reason); err != nil {
		m.logger.Error().
			Err(err).
			AnErr("cause", cause).
			Str("reason", reason).
			Msg("Failed to enter error phase")
	}
}

func (m *Match) requireRunning() error {
	phase := m.Phase()
	switch {
	case phase == states.PhaseEnded:
		return core.ErrGameOver
	case !phase.AcceptsShots():
		return fmt.Errorf("fire in %s: %w", phase, ErrWrongPhase)
	}
	return nil
}

func (m *Match) seat(playerNumber int) (player.Combatant, error) {
	for _, p := range m.players {
		if p.Number() == playerNumber {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player %d: %w", playerNumber, core.ErrInvalidPlayer)
}
