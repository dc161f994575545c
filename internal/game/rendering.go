package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// ANSI color codes used when RenderOptions.Color is set
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorCyan  = "\033[36m"
	ColorGray  = "\033[90m"
)

// Cell symbols
const (
	SymbolWater = "."
	SymbolShip  = "#"
	SymbolHit   = "X"
	SymbolMiss  = "o"
)

// RenderOptions controls how a board is drawn
type RenderOptions struct {
	// RevealShips shows unhit vessel cells; otherwise they look like water
	RevealShips bool
	Color       bool
}

// RenderBoard draws a board as text, one row per y with x across
func RenderBoard(board *core.Board, opts RenderOptions) string {
	grid := board.Grid()

	var sb strings.Builder
	sb.Grow((core.BoardSize*2 + 4) * (core.BoardSize + 2))

	sb.WriteString("   ")
	for x := 0; x < core.BoardSize; x++ {
		fmt.Fprintf(&sb, "%d ", x)
	}
	sb.WriteString("\n")

	for y := 0; y < core.BoardSize; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < core.BoardSize; x++ {
			color, symbol := cellDisplay(grid[x][y], opts.RevealShips)
			if opts.Color && color != "" {
				sb.WriteString(color)
				sb.WriteString(symbol)
				sb.WriteString(ColorReset)
			} else {
				sb.WriteString(symbol)
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func cellDisplay(c core.Cell, reveal bool) (string, string) {
	switch {
	case c.Shot && c.HasShip():
		return ColorRed, SymbolHit
	case c.Shot:
		return ColorGray, SymbolMiss
	case c.HasShip() && reveal:
		return ColorCyan, SymbolShip
	default:
		return "", SymbolWater
	}
}

// RenderMatch draws both boards with a heading each. Vessels are revealed on
// the viewer's own board only; viewer 0 reveals both.
func RenderMatch(m *Match, viewer int, color bool) string {
	var sb strings.Builder
	for _, p := range m.Players() {
		remaining := len(p.Board().ActiveFleet())
		fmt.Fprintf(&sb, "%s (player %d) - %d vessels afloat\n", p.Name(), p.Number(), remaining)
		sb.WriteString(RenderBoard(p.Board(), RenderOptions{
			RevealShips: viewer == 0 || viewer == p.Number(),
			Color:       color,
		}))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s=water %s=ship %s=hit %s=miss\n", SymbolWater, SymbolShip, SymbolHit, SymbolMiss)
	return sb.String()
}
