package game

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
	"github.com/mitchelldurbincs/battleship/internal/game/player"
	"github.com/mitchelldurbincs/battleship/internal/testutil"
)

func TestRenderBoard(t *testing.T) {
	board := core.NewBoard(1, zerolog.Nop())
	testutil.Place(t, board, testutil.Placement{
		Anchor: core.Coordinate{X: 2, Y: 1}, Name: "patrol-boat", Length: 2, Orientation: core.Horizontal,
	})
	for _, c := range []core.Coordinate{{X: 2, Y: 1}, {X: 0, Y: 0}} {
		_, err := board.ReceiveAttack(c)
		require.NoError(t, err)
	}

	lines := strings.Split(RenderBoard(board, RenderOptions{RevealShips: true}), "\n")
	require.Len(t, lines, core.BoardSize+2)
	assert.Equal(t, "   0 1 2 3 4 5 6 7 8 9 ", lines[0])
	assert.Equal(t, " 0 o . . . . . . . . . ", lines[1])
	assert.Equal(t, " 1 . . X # . . . . . . ", lines[2])
	assert.Equal(t, " 9 . . . . . . . . . . ", lines[10])

	hidden := strings.Split(RenderBoard(board, RenderOptions{}), "\n")
	assert.Equal(t, " 1 . . X . . . . . . . ", hidden[2])
}

func TestRenderBoard_Color(t *testing.T) {
	board := core.NewBoard(1, zerolog.Nop())
	_, err := board.ReceiveAttack(core.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)

	out := RenderBoard(board, RenderOptions{Color: true})
	assert.Contains(t, out, ColorGray+SymbolMiss+ColorReset)
	assert.NotContains(t, out, ColorCyan)
}

func TestRenderMatch(t *testing.T) {
	h1 := player.NewHuman("Alice", 1)
	h2 := player.NewHuman("Bob", 2)
	testutil.Place(t, h1.Board(), testutil.StandardLayout()...)
	testutil.Place(t, h2.Board(), testutil.StandardLayout()...)

	m, err := NewMatch(MatchConfig{
		Players: [2]player.Combatant{h1, h2},
		Logger:  testutil.NopLogger(),
	})
	require.NoError(t, err)

	out := RenderMatch(m, 1, false)
	assert.Contains(t, out, "Alice (player 1) - 5 vessels afloat")
	assert.Contains(t, out, "Bob (player 2) - 5 vessels afloat")

	sections := strings.Split(out, "Bob (player 2)")
	require.Len(t, sections, 2)
	assert.Contains(t, sections[0], SymbolShip, "own vessels are shown")
	assert.NotContains(t, sections[1], SymbolShip+" ", "opponent vessels are hidden")

	assert.Equal(t, 2*17, strings.Count(RenderMatch(m, 0, false), SymbolShip)-1)
}
