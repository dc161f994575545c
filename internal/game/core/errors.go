package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidLength        = errors.New("invalid vessel length")
	ErrInvalidOrientation   = errors.New("invalid orientation")
	ErrPlacementRejected    = errors.New("placement overlaps another vessel")
	ErrNoLegalMoves         = errors.New("no unshot cells remain")
	ErrFleetPlacementFailed = errors.New("no legal position left for vessel")
	ErrGameOver             = errors.New("game is over")
	ErrNotYourTurn          = errors.New("not this player's turn")
	ErrInvalidPlayer        = errors.New("invalid player")
)

// IsProgrammerError reports whether err signals a caller bug (bad coordinate,
// length or orientation) rather than an outcome the caller is expected to handle.
func IsProgrammerError(err error) bool {
	return errors.Is(err, ErrInvalidCoordinate) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrInvalidOrientation)
}

// WrapPlacementError annotates a placement failure with the vessel and anchor.
func WrapPlacementError(name string, anchor Coordinate, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("place %s at %s: %w", name, anchor, err)
}

// WrapAttackError annotates an attack failure with the attacking player and target.
func WrapAttackError(playerNumber int, target Coordinate, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d: attack %s: %w", playerNumber, target, err)
}

// GameError carries the turn and player context of a failed match operation
type GameError struct {
	Turn      int
	PlayerID  int
	Operation string
	Err       error
}

// NewGameError creates a GameError
func NewGameError(turn, playerID int, operation string, err error) *GameError {
	return &GameError{
		Turn:      turn,
		PlayerID:  playerID,
		Operation: operation,
		Err:       err,
	}
}

func (e *GameError) Error() string {
	if e.PlayerID > 0 {
		return fmt.Sprintf("turn %d: player %d %s: %v", e.Turn, e.PlayerID, e.Operation, e.Err)
	}
	return fmt.Sprintf("turn %d: %s: %v", e.Turn, e.Operation, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}
