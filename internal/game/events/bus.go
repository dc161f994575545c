package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// funcSubscriber adapts an EventHandler registered for a single event type
type funcSubscriber struct {
	id        string
	eventType string
	handle    EventHandler
}

func (f *funcSubscriber) ID() string                 { return f.id }
func (f *funcSubscriber) HandleEvent(e Event)        { f.handle(e) }
func (f *funcSubscriber) InterestedIn(t string) bool { return t == f.eventType }

// EventBus delivers each event synchronously to its subscribers in the order
// they subscribed. Handlers run outside the bus lock and may subscribe or
// unsubscribe.
type EventBus struct {
	mu     sync.RWMutex
	subs   []Subscriber
	seq    int
	logger zerolog.Logger
}

func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

// NewEventBusWithLogger creates an event bus that logs through logger
func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		logger: logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber. One with the same ID is replaced in place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if i := eb.indexOf(subscriber.ID()); i >= 0 {
		eb.subs[i] = subscriber
	} else {
		eb.subs = append(eb.subs, subscriber)
	}
	eb.logger.Debug().Str("subscriber_id", subscriber.ID()).Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber or a function handler by ID
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	i := eb.indexOf(subscriberID)
	if i < 0 {
		return
	}
	eb.subs = append(eb.subs[:i:i], eb.subs[i+1:]...)
	eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed from event bus")
}

// SubscribeFunc registers handler for one event type. The returned ID can be
// passed to Unsubscribe.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.seq++
	f := &funcSubscriber{
		id:        fmt.Sprintf("%s_func_%d", eventType, eb.seq),
		eventType: eventType,
		handle:    handler,
	}
	eb.subs = append(eb.subs, f)
	return f.id
}

// Publish delivers event to every interested subscriber. A panicking handler
// is logged and does not stop delivery to the rest.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	targets := make([]Subscriber, 0, len(eb.subs))
	for _, s := range eb.subs {
		if s.InterestedIn(event.Type()) {
			targets = append(targets, s)
		}
	}
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Int("targets", len(targets)).
		Msg("Publishing event")

	for _, s := range targets {
		eb.deliver(s, event)
	}
}

func (eb *EventBus) deliver(s Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("subscriber_id", s.ID()).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()
	s.HandleEvent(event)
}

// SubscriberCount counts subscribers added with Subscribe
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	n := 0
	for _, s := range eb.subs {
		if _, ok := s.(*funcSubscriber); !ok {
			n++
		}
	}
	return n
}

// FuncHandlerCount counts function handlers registered for eventType
func (eb *EventBus) FuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	n := 0
	for _, s := range eb.subs {
		if f, ok := s.(*funcSubscriber); ok && f.eventType == eventType {
			n++
		}
	}
	return n
}

func (eb *EventBus) indexOf(id string) int {
	for i, s := range eb.subs {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

var _ Bus = (*EventBus)(nil)
