package game

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
	"github.com/mitchelldurbincs/battleship/internal/game/events"
	"github.com/mitchelldurbincs/battleship/internal/game/player"
	"github.com/mitchelldurbincs/battleship/internal/game/states"
	"github.com/mitchelldurbincs/battleship/internal/testutil"
)

func newAgent(seed int64, number int) *player.Autonomous {
	return player.NewAutonomous(player.AutonomousConfig{
		Name:   "",
		Number: number,
		Rng:    testutil.NewTestRNG(seed),
		Logger: testutil.NopLogger(),
	})
}

func newTestMatch(t *testing.T, cfg MatchConfig) (*Match, map[string]int) {
	t.Helper()
	cfg.Logger = testutil.NopLogger()

	m, err := NewMatch(cfg)
	require.NoError(t, err)

	counts := make(map[string]int)
	m.EventBus().Subscribe(&countingSubscriber{counts: counts})
	return m, counts
}

type countingSubscriber struct {
	counts map[string]int
}

func (c *countingSubscriber) ID() string                 { return "counter" }
func (c *countingSubscriber) InterestedIn(string) bool   { return true }
func (c *countingSubscriber) HandleEvent(e events.Event) { c.counts[e.Type()]++ }

// placeStandard places testutil.StandardLayout for a human through the match
func placeStandard(t *testing.T, m *Match, playerNumber int) {
	t.Helper()
	for _, p := range testutil.StandardLayout() {
		next, ok := m.NextVessel(playerNumber)
		require.True(t, ok)
		require.Equal(t, p.Name, next.Name)

		v, err := m.PlaceVessel(playerNumber, p.Anchor, p.Orientation)
		require.NoError(t, err)
		assert.Equal(t, p.Length, v.Length)
	}
}

// waterCells lists cells of StandardLayout's empty odd rows
func waterCells() []core.Coordinate {
	var cells []core.Coordinate
	for y := 1; y < core.BoardSize; y += 2 {
		for x := 0; x < core.BoardSize; x++ {
			cells = append(cells, core.Coordinate{X: x, Y: y})
		}
	}
	return cells
}

func TestNewMatch_Validation(t *testing.T) {
	h1 := player.NewHuman("", 1)
	h2 := player.NewHuman("", 2)

	tests := []struct {
		name string
		cfg  MatchConfig
		is   error
	}{
		{"missing player", MatchConfig{Players: [2]player.Combatant{h1, nil}}, core.ErrInvalidPlayer},
		{"duplicate numbers", MatchConfig{Players: [2]player.Combatant{h1, player.NewHuman("", 1)}}, core.ErrInvalidPlayer},
		{"first player not seated", MatchConfig{Players: [2]player.Combatant{h1, h2}, FirstPlayer: 3}, core.ErrInvalidPlayer},
		{"bad fleet", MatchConfig{Players: [2]player.Combatant{h1, h2}, Fleet: []player.FleetSpec{{Name: "raft", Length: 1}}}, core.ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = testutil.NopLogger()
			_, err := NewMatch(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is))
		})
	}
}

func TestNewMatch_Defaults(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{
		Players: [2]player.Combatant{player.NewHuman("", 1), player.NewHuman("", 2)},
	})

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, states.PhaseInitializing, m.Phase())
	assert.Equal(t, player.DefaultFleet(), m.Fleet())
	assert.Equal(t, 0, m.Turn())
	assert.Equal(t, 1, m.CurrentPlayer().Number())
	assert.False(t, m.IsOver())
	_, decided := m.Winner()
	assert.False(t, decided)
}

func TestMatch_AutonomousPlaysToCompletion(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		a := newAgent(seed, 1)
		b := newAgent(seed+50, 2)
		m, counts := newTestMatch(t, MatchConfig{Players: [2]player.Combatant{a, b}})

		require.NoError(t, m.OpenPlacement())
		assert.Equal(t, 10, counts[events.TypeVesselPlaced])
		require.NoError(t, m.Start())
		require.NoError(t, m.Run(context.Background()))

		assert.True(t, m.IsOver())
		assert.Equal(t, states.PhaseEnded, m.Phase())

		winner, ok := m.Winner()
		require.True(t, ok)
		loser := a
		if winner == player.Combatant(a) {
			loser = b
		}
		assert.True(t, loser.Board().FleetDestroyed())

		stats := m.Stats()
		totalShots := stats[0].Shots + stats[1].Shots
		assert.Equal(t, totalShots, counts[events.TypeShotFired])
		assert.Equal(t, m.Turn(), totalShots)
		assert.LessOrEqual(t, totalShots, 2*core.BoardSize*core.BoardSize)

		for _, s := range stats {
			if s.Player == winner.Number() {
				assert.Equal(t, 5, s.Sunk)
				assert.Equal(t, 17, s.Hits)
			}
			assert.Equal(t, s.Shots, s.Hits+s.Misses)
			assert.Zero(t, s.Repeats)
		}

		assert.Equal(t, 1, counts[events.TypeMatchStarted])
		assert.Equal(t, 1, counts[events.TypeFleetDestroyed])
		assert.Equal(t, 1, counts[events.TypeMatchEnded])
		assert.Equal(t, 3, counts[events.TypeStateTransition])

		_, err := m.Step()
		assert.True(t, errors.Is(err, core.ErrGameOver))
	}
}

func TestMatch_HumansAlternateAndRepeatKeepsTurn(t *testing.T) {
	h1 := player.NewHuman("Alice", 1)
	h2 := player.NewHuman("Bob", 2)
	m, counts := newTestMatch(t, MatchConfig{Players: [2]player.Combatant{h1, h2}})

	require.NoError(t, m.OpenPlacement())
	placeStandard(t, m, 1)

	err := m.Start()
	require.Error(t, err, "player 2 has not placed a fleet")
	assert.Equal(t, states.PhasePlacement, m.Phase())

	placeStandard(t, m, 2)
	require.NoError(t, m.Start())
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, h1, m.CurrentPlayer())

	outcome, err := m.Fire(core.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeHit, outcome.Kind)
	assert.Equal(t, h2, m.CurrentPlayer())
	assert.Equal(t, 2, m.Turn())

	water := waterCells()
	_, err = m.Fire(water[0])
	require.NoError(t, err)
	water = water[1:]

	outcome, err = m.Fire(core.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeAlreadyShot, outcome.Kind)
	assert.Equal(t, h1, m.CurrentPlayer(), "a repeated shot keeps the turn")
	assert.Equal(t, 3, m.Turn())

	targets := testutil.OccupiedCells(testutil.StandardLayout()...)[1:]
	for i, target := range targets {
		outcome, err := m.Fire(target)
		require.NoError(t, err)
		require.True(t, outcome.IsHit())

		if i == len(targets)-1 {
			assert.True(t, outcome.FleetDestroyed)
			break
		}
		_, err = m.Fire(water[i])
		require.NoError(t, err)
	}

	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, h1, winner)
	assert.True(t, m.IsOver())

	stats := m.Stats()
	assert.Equal(t, "Alice", stats[0].Name)
	assert.Equal(t, 17, stats[0].Shots)
	assert.Equal(t, 17, stats[0].Hits)
	assert.Equal(t, 1, stats[0].Repeats)
	assert.Equal(t, 5, stats[0].Sunk)
	assert.InDelta(t, 1.0, stats[0].Accuracy(), 1e-9)
	assert.Equal(t, 16, stats[1].Misses)
	assert.Zero(t, stats[1].Accuracy())
	assert.Equal(t, 5, counts[events.TypeVesselSunk])

	_, err = m.Fire(core.Coordinate{X: 5, Y: 5})
	assert.True(t, errors.Is(err, core.ErrGameOver))
}

func TestMatch_HumanAgainstAgent(t *testing.T) {
	human := player.NewHuman("", 1)
	agent := newAgent(7, 2)
	m, _ := newTestMatch(t, MatchConfig{Players: [2]player.Combatant{human, agent}})

	require.NoError(t, m.OpenPlacement())
	placeStandard(t, m, 1)
	require.NoError(t, m.Start())

	_, err := m.Step()
	assert.True(t, errors.Is(err, ErrAwaitingHumanMove))
	assert.True(t, errors.Is(m.Run(context.Background()), ErrAwaitingHumanMove))

	_, err = m.Fire(core.Coordinate{X: 4, Y: 4})
	require.NoError(t, err)
	require.Equal(t, agent, m.CurrentPlayer())

	_, err = m.Fire(core.Coordinate{X: 4, Y: 5})
	assert.True(t, errors.Is(err, core.ErrNotYourTurn))

	require.True(t, errors.Is(m.Run(context.Background()), ErrAwaitingHumanMove))
	assert.Equal(t, human, m.CurrentPlayer())
	assert.Len(t, human.Board().ShotLog(), 1)
	assert.Equal(t, 3, m.Turn())
}

func TestMatch_FireErrors(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{
		Players: [2]player.Combatant{player.NewHuman("", 1), player.NewHuman("", 2)},
	})

	_, err := m.Fire(core.Coordinate{X: 1, Y: 1})
	assert.True(t, errors.Is(err, ErrWrongPhase))

	require.NoError(t, m.OpenPlacement())
	placeStandard(t, m, 1)
	placeStandard(t, m, 2)
	require.NoError(t, m.Start())

	_, err = m.Fire(core.Coordinate{X: 10, Y: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidCoordinate))
	assert.True(t, core.IsProgrammerError(err))
	var gameErr *core.GameError
	require.True(t, errors.As(err, &gameErr))
	assert.Equal(t, 1, gameErr.Turn)
	assert.Equal(t, 1, gameErr.PlayerID)

	assert.Equal(t, 1, m.Turn(), "a rejected shot does not pass the turn")
	assert.Equal(t, states.PhaseRunning, m.Phase())
}

func TestMatch_PlaceVessel(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{
		Players: [2]player.Combatant{player.NewHuman("", 1), player.NewHuman("", 2)},
		Fleet:   []player.FleetSpec{{Name: "destroyer", Length: 3}, {Name: "patrol-boat", Length: 2}},
	})

	_, err := m.PlaceVessel(1, core.Coordinate{X: 0, Y: 0}, core.Horizontal)
	assert.True(t, errors.Is(err, ErrWrongPhase))

	require.NoError(t, m.OpenPlacement())

	v, err := m.PlaceVessel(1, core.Coordinate{X: 0, Y: 0}, core.Horizontal)
	require.NoError(t, err)
	assert.Equal(t, "destroyer", v.Name)

	_, err = m.PlaceVessel(1, core.Coordinate{X: 1, Y: 0}, core.Horizontal)
	assert.True(t, errors.Is(err, core.ErrPlacementRejected))
	next, ok := m.NextVessel(1)
	require.True(t, ok)
	assert.Equal(t, "patrol-boat", next.Name, "a rejected placement is retried with the same vessel")

	_, err = m.PlaceVessel(1, core.Coordinate{X: 0, Y: 5}, core.Vertical)
	require.NoError(t, err)

	_, ok = m.NextVessel(1)
	assert.False(t, ok)
	_, err = m.PlaceVessel(1, core.Coordinate{X: 5, Y: 5}, core.Vertical)
	assert.True(t, errors.Is(err, ErrFleetComplete))

	_, err = m.PlaceVessel(3, core.Coordinate{X: 5, Y: 5}, core.Vertical)
	assert.True(t, errors.Is(err, core.ErrInvalidPlayer))
}

func TestMatch_PlacementFailureEntersErrorPhase(t *testing.T) {
	crowded := make([]player.FleetSpec, 21)
	for i := range crowded {
		crowded[i] = player.FleetSpec{Name: "aircraft-carrier", Length: 5}
	}
	agent := player.NewAutonomous(player.AutonomousConfig{
		Number:               2,
		Rng:                  testutil.NewTestRNG(1),
		Fleet:                crowded,
		MaxPlacementAttempts: 3,
		Logger:               testutil.NopLogger(),
	})

	m, _ := newTestMatch(t, MatchConfig{Players: [2]player.Combatant{player.NewHuman("", 1), agent}})

	err := m.OpenPlacement()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFleetPlacementFailed))
	assert.Equal(t, states.PhaseError, m.Phase())

	require.NoError(t, m.Reset())
	assert.Equal(t, states.PhaseInitializing, m.Phase())
	assert.Empty(t, agent.Board().Vessels())
}

func TestMatch_TurnLimit(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{
		Players:  [2]player.Combatant{newAgent(1, 1), newAgent(2, 2)},
		MaxTurns: 4,
	})
	require.NoError(t, m.OpenPlacement())
	require.NoError(t, m.Start())

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTurnLimitReached))
	assert.Equal(t, states.PhaseError, m.Phase())
	assert.Equal(t, 5, m.Turn())
}

// refusingErrorState fails to enter, so the match cannot reach PhaseError
type refusingErrorState struct {
	states.ErrorState
}

func (*refusingErrorState) Enter(*states.MatchContext) error {
	return errors.New("error phase unavailable")
}

func TestMatch_RefusedErrorPhaseIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	m, err := NewMatch(MatchConfig{
		Players:  [2]player.Combatant{newAgent(1, 1), newAgent(2, 2)},
		MaxTurns: 2,
		Logger:   &logger,
	})
	require.NoError(t, err)
	m.machine.RegisterState(&refusingErrorState{})

	require.NoError(t, m.OpenPlacement())
	require.NoError(t, m.Start())

	err = m.Run(context.Background())
	require.ErrorIs(t, err, ErrTurnLimitReached)
	assert.Equal(t, states.PhaseRunning, m.Phase(), "a refused Enter rolls the phase back")

	out := buf.String()
	assert.Contains(t, out, "Failed to enter error phase")
	assert.Contains(t, out, "error phase unavailable")
	assert.Contains(t, out, `"reason":"turn limit reached"`)
}

func TestMatch_RunHonoursCancellation(t *testing.T) {
	m, _ := newTestMatch(t, MatchConfig{
		Players: [2]player.Combatant{newAgent(1, 1), newAgent(2, 2)},
	})
	require.NoError(t, m.OpenPlacement())
	require.NoError(t, m.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.Equal(t, 1, m.Turn())
	assert.Equal(t, states.PhaseRunning, m.Phase())
}

func TestMatch_ResetAndReplay(t *testing.T) {
	a := newAgent(3, 1)
	b := newAgent(4, 2)
	m, counts := newTestMatch(t, MatchConfig{Players: [2]player.Combatant{a, b}, FirstPlayer: 2})

	assert.True(t, errors.Is(m.Reset(), ErrWrongPhase))

	require.NoError(t, m.OpenPlacement())
	require.NoError(t, m.Start())
	assert.Equal(t, b, m.CurrentPlayer())
	require.NoError(t, m.Run(context.Background()))

	require.NoError(t, m.Reset())
	assert.Equal(t, states.PhaseInitializing, m.Phase())
	assert.Equal(t, 0, m.Turn())
	assert.Empty(t, a.Board().Vessels())
	assert.Empty(t, b.Board().ShotLog())
	assert.Equal(t, player.ModeSearch, a.State().Mode())
	assert.Zero(t, m.Stats()[0].Shots)
	_, decided := m.Winner()
	assert.False(t, decided)

	require.NoError(t, m.OpenPlacement())
	require.NoError(t, m.Start())
	require.NoError(t, m.Run(context.Background()))
	assert.True(t, m.IsOver())
	assert.Equal(t, 2, counts[events.TypeMatchEnded])
}
