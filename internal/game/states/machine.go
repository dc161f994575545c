package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/battleship/internal/game/events"
)

// historyLimit caps the transitions kept per match. A match that keeps
// restarting drops its oldest entries first.
const historyLimit = 256

// State is one match phase with lifecycle callbacks
type State interface {
	Phase() Phase

	// Validate checks whether ctx allows entering this phase. It runs before
	// the current phase's Exit, so a refusal leaves the machine untouched.
	Validate(ctx *MatchContext) error
	Enter(ctx *MatchContext) error
	Exit(ctx *MatchContext) error
}

// Transition is one entry in the machine's history
type Transition struct {
	From   Phase
	To     Phase
	At     time.Time
	Reason string
}

// StateMachine moves a match through its phases and publishes every transition
type StateMachine struct {
	mu        sync.RWMutex
	phase     Phase
	registry  map[Phase]State
	ctx       *MatchContext
	history   []Transition
	publisher events.Publisher
}

// NewStateMachine creates a machine in PhaseInitializing with the default
// states registered. publisher may be nil.
func NewStateMachine(ctx *MatchContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		phase:     PhaseInitializing,
		registry:  make(map[Phase]State, len(allPhases)),
		ctx:       ctx,
		publisher: publisher,
	}

	for _, s := range []State{
		NewInitializingState(),
		NewPlacementState(),
		NewRunningState(),
		NewEndedState(),
		NewErrorState(),
		NewResetState(),
	} {
		sm.registry[s.Phase()] = s
	}
	return sm
}

// RegisterState registers or replaces the implementation for a phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.registry[state.Phase()] = state
}

// CurrentPhase returns the phase the match is in
func (sm *StateMachine) CurrentPhase() Phase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.phase
}

// TransitionTo validates and performs a transition. An Exit error is logged
// and ignored; an Enter error rolls the phase back.
func (sm *StateMachine) TransitionTo(target Phase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.moveTo(target, reason)
}

// moveTo requires sm.mu held for writing
func (sm *StateMachine) moveTo(target Phase, reason string) error {
	from := sm.phase
	if !from.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", from, target)
	}

	next, ok := sm.registry[target]
	if !ok {
		return fmt.Errorf("no state implementation for phase %s", target)
	}
	if err := next.Validate(sm.ctx); err != nil {
		return fmt.Errorf("enter %s: %w", target, err)
	}

	sm.leave(from, target)

	sm.phase = target
	if err := next.Enter(sm.ctx); err != nil {
		sm.phase = from
		return fmt.Errorf("failed to enter state %s: %w", target, err)
	}

	sm.record(Transition{From: from, To: target, At: time.Now(), Reason: reason})
	return nil
}

func (sm *StateMachine) leave(from, to Phase) {
	current, ok := sm.registry[from]
	if !ok {
		return
	}
	if err := current.Exit(sm.ctx); err != nil {
		sm.ctx.Logger.Error().
			Err(err).
			Str("from_phase", from.String()).
			Str("to_phase", to.String()).
			Msg("Error exiting state")
	}
}

func (sm *StateMachine) record(t Transition) {
	sm.history = append(sm.history, t)
	if over := len(sm.history) - historyLimit; over > 0 {
		sm.history = sm.history[over:]
	}

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.ctx.MatchID, t.From.String(), t.To.String(), t.Reason))
	}

	sm.ctx.Logger.Debug().
		Str("from_phase", t.From.String()).
		Str("to_phase", t.To.String()).
		Str("reason", t.Reason).
		Msg("State transition completed")
}

// History returns a copy of the transitions since creation or the last Reset
func (sm *StateMachine) History() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]Transition(nil), sm.history...)
}

// CanTransitionTo reports whether the transition table allows target from
// the current phase. It does not run the target state's Validate.
func (sm *StateMachine) CanTransitionTo(target Phase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.phase.CanTransitionTo(target)
}

// Fail records err and moves the match to PhaseError
func (sm *StateMachine) Fail(err error, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.ctx.Error = err
	return sm.moveTo(PhaseError, reason)
}

// Reset walks a terminal match through PhaseReset back to PhaseInitializing
// and clears the history
func (sm *StateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.phase != PhaseReset {
		if err := sm.moveTo(PhaseReset, "reset requested"); err != nil {
			return err
		}
	}
	if err := sm.moveTo(PhaseInitializing, "reset complete"); err != nil {
		return err
	}
	sm.history = nil
	return nil
}
