package core

import (
	"github.com/rs/zerolog"
)

// NoVessel marks a cell without a ship
const NoVessel = -1

// Cell represents a single square on the board.
// Vessel is an index into the owning board's vessel list, NoVessel when empty.
type Cell struct {
	Coord  Coordinate
	Shot   bool
	Vessel int
}

// HasShip reports whether a vessel occupies the cell
func (c Cell) HasShip() bool { return c.Vessel != NoVessel }

// Board is one player's 10x10 grid, addressed as grid[x][y].
type Board struct {
	owner   int
	grid    [BoardSize][BoardSize]Cell
	vessels []*Vessel // every vessel placed this game, indexed by Vessel.ID
	active  []*Vessel // vessels not yet sunk
	shotLog []Coordinate
	logger  zerolog.Logger
}

// NewBoard creates an empty board owned by the given player number. Placements
// and attacks are logged at Debug through logger.
func NewBoard(owner int, logger zerolog.Logger) *Board {
	b := &Board{
		owner:  owner,
		logger: logger.With().Str("component", "board").Int("owner", owner).Logger(),
	}
	b.clear()
	return b
}

func (b *Board) clear() {
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			b.grid[x][y] = Cell{Coord: Coordinate{X: x, Y: y}, Vessel: NoVessel}
		}
	}
	b.vessels = nil
	b.active = nil
	b.shotLog = nil
}

// Reset clears every cell, the fleet and the shot log. Only used on restart.
func (b *Board) Reset() {
	b.clear()
	b.logger.Debug().Msg("Board reset")
}

// Owner returns the player number that owns this board
func (b *Board) Owner() int { return b.owner }

// Footprint returns the cells a vessel anchored at anchor would occupy.
// Vertical vessels extend toward lower y, horizontal ones toward higher x.
// A vessel that would run off the board is shifted flush against that edge
// instead of being rejected.
func Footprint(anchor Coordinate, length int, orientation Orientation) []Coordinate {
	cells := make([]Coordinate, 0, length)

	if orientation == Vertical {
		top := anchor.Y
		if top-length+1 < 0 {
			top = length - 1
		}
		for y := top; y > top-length; y-- {
			cells = append(cells, Coordinate{X: anchor.X, Y: y})
		}
		return cells
	}

	left := anchor.X
	if left+length-1 >= BoardSize {
		left = BoardSize - length
	}
	for x := left; x < left+length; x++ {
		cells = append(cells, Coordinate{X: x, Y: anchor.Y})
	}
	return cells
}

func validatePlacement(anchor Coordinate, length int, orientation Orientation) error {
	if !anchor.InBounds() {
		return ErrInvalidCoordinate
	}
	if !ValidLength(length) {
		return ErrInvalidLength
	}
	if orientation != Vertical && orientation != Horizontal {
		return ErrInvalidOrientation
	}
	return nil
}

// CanPlace reports whether PlaceVessel would succeed with these arguments
func (b *Board) CanPlace(anchor Coordinate, length int, orientation Orientation) bool {
	if validatePlacement(anchor, length, orientation) != nil {
		return false
	}
	return !b.overlaps(Footprint(anchor, length, orientation))
}

func (b *Board) overlaps(cells []Coordinate) bool {
	for _, c := range cells {
		if b.grid[c.X][c.Y].HasShip() {
			return true
		}
	}
	return false
}

// PlaceVessel places a new vessel anchored at anchor. ErrInvalidCoordinate,
// ErrInvalidLength and ErrInvalidOrientation are caller bugs;
// ErrPlacementRejected means the clamped footprint overlaps another vessel.
// The board is untouched on any error.
func (b *Board) PlaceVessel(anchor Coordinate, name string, length int, orientation Orientation) (Vessel, error) {
	if err := validatePlacement(anchor, length, orientation); err != nil {
		return Vessel{}, WrapPlacementError(name, anchor, err)
	}

	cells := Footprint(anchor, length, orientation)
	if b.overlaps(cells) {
		b.logger.Debug().
			Str("vessel", name).
			Str("anchor", anchor.String()).
			Str("orientation", orientation.String()).
			Msg("Placement rejected")
		return Vessel{}, WrapPlacementError(name, anchor, ErrPlacementRejected)
	}

	v := newVessel(len(b.vessels), name, length, orientation, cells)
	b.vessels = append(b.vessels, v)
	b.active = append(b.active, v)
	for _, c := range cells {
		b.grid[c.X][c.Y].Vessel = v.ID
	}

	b.logger.Debug().
		Str("vessel", name).
		Int("length", length).
		Str("orientation", orientation.String()).
		Str("from", cells[0].String()).
		Str("to", cells[len(cells)-1].String()).
		Msg("Vessel placed")

	return *v, nil
}

// ReceiveAttack resolves a shot at coord. A repeated shot returns
// OutcomeAlreadyShot and changes nothing.
func (b *Board) ReceiveAttack(coord Coordinate) (AttackOutcome, error) {
	if !coord.InBounds() {
		return AttackOutcome{}, ErrInvalidCoordinate
	}

	cell := &b.grid[coord.X][coord.Y]
	if cell.Shot {
		return AttackOutcome{Kind: OutcomeAlreadyShot, Coord: coord}, nil
	}

	cell.Shot = true
	b.shotLog = append(b.shotLog, coord)

	if !cell.HasShip() {
		return AttackOutcome{Kind: OutcomeMiss, Coord: coord}, nil
	}

	v := b.vessels[cell.Vessel]
	v.Hit()
	if !v.IsSunk() {
		return AttackOutcome{Kind: OutcomeHit, Coord: coord, VesselName: v.Name}, nil
	}

	b.removeActive(v)
	outcome := AttackOutcome{
		Kind:           OutcomeSunk,
		Coord:          coord,
		VesselName:     v.Name,
		FleetDestroyed: len(b.active) == 0,
	}

	b.logger.Debug().
		Str("vessel", v.Name).
		Int("remaining", len(b.active)).
		Bool("fleet_destroyed", outcome.FleetDestroyed).
		Msg("Vessel sunk")

	return outcome, nil
}

func (b *Board) removeActive(v *Vessel) {
	for i, a := range b.active {
		if a == v {
			b.active = append(b.active[:i], b.active[i+1:]...)
			return
		}
	}
}

// FleetDestroyed reports whether vessels were placed and all of them are sunk
func (b *Board) FleetDestroyed() bool {
	return len(b.vessels) > 0 && len(b.active) == 0
}

// Grid returns a snapshot of every cell
func (b *Board) Grid() [BoardSize][BoardSize]Cell {
	return b.grid
}

// Cell returns the cell at c, or false if c is off the board
func (b *Board) Cell(c Coordinate) (Cell, bool) {
	if !c.InBounds() {
		return Cell{}, false
	}
	return b.grid[c.X][c.Y], true
}

// IsShot reports whether c has been attacked. Off-board coordinates count as shot
// so that callers probing around a hit never select them.
func (b *Board) IsShot(c Coordinate) bool {
	if !c.InBounds() {
		return true
	}
	return b.grid[c.X][c.Y].Shot
}

// ActiveFleet returns copies of the vessels that are still afloat
func (b *Board) ActiveFleet() []Vessel {
	fleet := make([]Vessel, len(b.active))
	for i, v := range b.active {
		fleet[i] = *v
	}
	return fleet
}

// Vessels returns copies of every vessel placed on the board, sunk or not
func (b *Board) Vessels() []Vessel {
	all := make([]Vessel, len(b.vessels))
	for i, v := range b.vessels {
		all[i] = *v
	}
	return all
}

// ShotLog returns every attacked coordinate in attack order
func (b *Board) ShotLog() []Coordinate {
	shots := make([]Coordinate, len(b.shotLog))
	copy(shots, b.shotLog)
	return shots
}

// UnshotCells returns every coordinate that has not been attacked
func (b *Board) UnshotCells() []Coordinate {
	cells := make([]Coordinate, 0, BoardSize*BoardSize-len(b.shotLog))
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if !b.grid[x][y].Shot {
				cells = append(cells, b.grid[x][y].Coord)
			}
		}
	}
	return cells
}

// EmptyCells returns every coordinate with no ship that has not been attacked
func (b *Board) EmptyCells() []Coordinate {
	cells := make([]Coordinate, 0, BoardSize*BoardSize)
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			c := b.grid[x][y]
			if !c.HasShip() && !c.Shot {
				cells = append(cells, c.Coord)
			}
		}
	}
	return cells
}
