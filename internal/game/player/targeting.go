package player

import (
	"fmt"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// Mode names the two targeting strategies
type Mode int

const (
	ModeSearch Mode = iota
	ModeHunt
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeHunt:
		return "hunt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// TargetingState is either Search or *Hunt
type TargetingState interface {
	Mode() Mode
}

// Search has no active target; moves are uniformly random over unshot cells
type Search struct{}

func (Search) Mode() Mode { return ModeSearch }

// Hunt pursues one damaged vessel. It only exists between the first hit on a
// vessel and the shot that sinks something.
type Hunt struct {
	// Queue holds orthogonal neighbours of FirstHit that were unshot when queued
	Queue    []core.Coordinate
	FirstHit core.Coordinate
	LastHit  core.Coordinate
	// PreviousHit is nil until a second hit has been scored
	PreviousHit *core.Coordinate
	// Step is the unit vector of the inferred axis, nil until one is known
	Step *core.Coordinate
	// Pending is the next cell along the axis, attacked ahead of the queue
	Pending *core.Coordinate
	// Flipped is set once the hunt has turned to the far side of FirstHit
	Flipped bool
}

func (*Hunt) Mode() Mode { return ModeHunt }

func newHunt(hit core.Coordinate, board *core.Board) *Hunt {
	h := &Hunt{FirstHit: hit, LastHit: hit}
	for _, n := range hit.ValidNeighbors() {
		if !board.IsShot(n) {
			h.Queue = append(h.Queue, n)
		}
	}
	return h
}

// clone returns a deep copy so callers cannot mutate live state
func (h *Hunt) clone() *Hunt {
	c := *h
	c.Queue = append([]core.Coordinate(nil), h.Queue...)
	c.PreviousHit = copyCoord(h.PreviousHit)
	c.Step = copyCoord(h.Step)
	c.Pending = copyCoord(h.Pending)
	return &c
}

func copyCoord(c *core.Coordinate) *core.Coordinate {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// nextTarget picks the pending axis cell if there is one, otherwise the next
// unshot queued neighbour. directional reports whether the pick came from the axis.
func (h *Hunt) nextTarget(board *core.Board) (target core.Coordinate, directional, found bool) {
	if h.Pending != nil {
		p := *h.Pending
		h.Pending = nil
		if !board.IsShot(p) {
			return p, true, true
		}
	}

	for len(h.Queue) > 0 {
		c := h.Queue[0]
		h.Queue = h.Queue[1:]
		if !board.IsShot(c) {
			return c, false, true
		}
	}

	return core.Coordinate{}, false, false
}

// recordHit advances the line-following heuristic after a non-sinking hit
func (h *Hunt) recordHit(target core.Coordinate, board *core.Board) {
	prev := h.LastHit
	h.PreviousHit = &prev
	h.LastHit = target

	step, ok := prev.AxisStep(target)
	if !ok {
		step, ok = h.FirstHit.AxisStep(target)
	}
	if !ok {
		h.Step = nil
		return
	}

	h.Step = &step
	next := target.Add(step)
	if !board.IsShot(next) {
		h.Pending = &next
		return
	}
	h.flip(board)
}

// recordMiss handles a miss (or already-shot) result
func (h *Hunt) recordMiss(directional bool, board *core.Board) {
	if directional && !h.Flipped {
		h.flip(board)
	}
}

// flip turns the hunt to the cell one step beyond FirstHit on the other side
func (h *Hunt) flip(board *core.Board) {
	h.Flipped = true
	if h.Step == nil {
		return
	}

	opposite := h.Step.Neg()
	next := h.FirstHit.Add(opposite)
	if board.IsShot(next) {
		return
	}
	h.Step = &opposite
	h.Pending = &next
}
