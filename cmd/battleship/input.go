package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

var errQuit = errors.New("quit")

// parseTarget reads "x y" into a coordinate. Range is checked by the board.
func parseTarget(line string) (core.Coordinate, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return core.Coordinate{}, fmt.Errorf("expected \"x y\", got %q", strings.TrimSpace(line))
	}
	return parseXY(fields[0], fields[1])
}

// parsePlacement reads "x y v" or "x y h"
func parsePlacement(line string) (core.Coordinate, core.Orientation, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return core.Coordinate{}, 0, fmt.Errorf("expected \"x y v|h\", got %q", strings.TrimSpace(line))
	}
	anchor, err := parseXY(fields[0], fields[1])
	if err != nil {
		return core.Coordinate{}, 0, err
	}

	switch strings.ToLower(fields[2]) {
	case "v", "vertical":
		return anchor, core.Vertical, nil
	case "h", "horizontal":
		return anchor, core.Horizontal, nil
	default:
		return core.Coordinate{}, 0, fmt.Errorf("orientation must be v or h, got %q", fields[2])
	}
}

func parseXY(xs, ys string) (core.Coordinate, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return core.Coordinate{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return core.Coordinate{}, fmt.Errorf("y: %w", err)
	}
	return core.Coordinate{X: x, Y: y}, nil
}

// prompter writes a prompt and reads one line at a time. "q" or EOF ends input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(format string, args ...interface{}) (string, error) {
	fmt.Fprintf(p.out, format, args...)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(p.in.Text())
	if line == "q" || line == "quit" {
		return "", errQuit
	}
	return line, nil
}
