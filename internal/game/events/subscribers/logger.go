package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/battleship/internal/game/events"
)

// LoggerSubscriber writes match events to a structured log
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil logs every type
	devMode         bool            // attach the full event as JSON
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (empty means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables full-event logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs the event with fields specific to its type
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Strs("players", e.Players).
			Int("first_player", e.FirstPlayer)

	case *events.MatchEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("final_turn", e.FinalTurn).
			Dur("duration", e.Duration)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player", e.Player)

	case *events.VesselPlacedEvent:
		logEvent.
			Int("player", e.Player).
			Str("vessel", e.Vessel).
			Int("length", e.Length).
			Str("orientation", e.Orientation)

	case *events.ShotFiredEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("attacker", e.Attacker).
			Int("x", e.Target.X).
			Int("y", e.Target.Y).
			Str("outcome", e.Outcome.String())
		if e.Vessel != "" {
			logEvent.Str("vessel", e.Vessel)
		}

	case *events.VesselSunkEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("attacker", e.Attacker).
			Int("owner", e.Owner).
			Str("vessel", e.Vessel)

	case *events.FleetDestroyedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("owner", e.Owner).
			Int("destroyed_by", e.DestroyedBy)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
