package player

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/battleship/internal/game/core"
)

// Combatant is one side of a match: an identity that owns a board and can
// attack an opponent's board
type Combatant interface {
	ID() string
	Name() string
	Number() int
	Board() *core.Board
	Attack(target core.Coordinate, opponent Combatant) (core.AttackOutcome, error)
}

// Agent is a combatant that chooses its own targets
type Agent interface {
	Combatant
	TakeTurn(opponent Combatant) (core.AttackOutcome, error)
	PlaceFleet() error
	Reset()
}

// identity holds what both combatant variants share
type identity struct {
	id     string
	name   string
	number int
	board  *core.Board
}

func newIdentity(name string, number int, logger zerolog.Logger) identity {
	return identity{
		id:     uuid.NewString(),
		name:   name,
		number: number,
		board:  core.NewBoard(number, logger),
	}
}

// ID is a random UUID assigned at construction
func (i *identity) ID() string { return i.id }

// Name is the display name
func (i *identity) Name() string { return i.name }

// Number is the seat, 1 or 2
func (i *identity) Number() int { return i.number }

// Board is the combatant's own board, the one the opponent fires at
func (i *identity) Board() *core.Board { return i.board }

// Attack fires at target on the opponent's board. No validation happens here
// beyond what the board performs.
func (i *identity) Attack(target core.Coordinate, opponent Combatant) (core.AttackOutcome, error) {
	if opponent == nil {
		return core.AttackOutcome{}, core.WrapAttackError(i.number, target, core.ErrInvalidPlayer)
	}

	outcome, err := opponent.Board().ReceiveAttack(target)
	if err != nil {
		return outcome, core.WrapAttackError(i.number, target, err)
	}
	return outcome, nil
}

// Human is a combatant whose targets and placements come from outside the core
type Human struct {
	identity
}

// NewHuman creates a human combatant with an empty board that logs through
// the global logger
func NewHuman(name string, number int) *Human {
	return NewHumanWithLogger(name, number, log.Logger)
}

// NewHumanWithLogger creates a human combatant whose board logs through logger
func NewHumanWithLogger(name string, number int, logger zerolog.Logger) *Human {
	if name == "" {
		name = fmt.Sprintf("Player %d", number)
	}
	return &Human{identity: newIdentity(name, number, logger)}
}

var (
	_ Combatant = (*Human)(nil)
	_ Agent     = (*Autonomous)(nil)
)
