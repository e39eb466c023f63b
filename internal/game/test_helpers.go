package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/twentyone/blackjack"
)

// NewTestSession creates a session whose deck deals the given cards first.
// Cards are dealt player, dealer, player, dealer hole, then hits in order.
func NewTestSession(cards []string, opts ...SessionOption) *Session {
	deck := blackjack.NewStackedDeck(blackjack.MustParseCards(cards...)...)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	all := append([]SessionOption{WithDeck(deck), WithLogger(logger)}, opts...)
	return NewSession(nil, all...)
}

// EventRecorder collects published events for assertions
type EventRecorder struct {
	Events []GameEvent
}

// OnEvent appends the event
func (r *EventRecorder) OnEvent(event GameEvent) {
	r.Events = append(r.Events, event)
}

// OfType returns recorded events with the given type
func (r *EventRecorder) OfType(t EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.Events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}
