package game

import (
	"time"

	"github.com/lox/twentyone/blackjack"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypeHoleRevealed EventType = "hole_revealed"
	EventTypeRoundSettled EventType = "round_settled"
	EventTypeSessionOver  EventType = "session_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Seat identifies who receives a card
type Seat string

const (
	SeatPlayer Seat = "player"
	SeatDealer Seat = "dealer"
)

// RoundStartEvent is published when cards are about to be dealt
type RoundStartEvent struct {
	Round     int
	Bet       int
	Bankroll  int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// CardDealtEvent is published for every card leaving the deck
type CardDealtEvent struct {
	Round     int
	Seat      Seat
	Card      blackjack.Card
	FaceDown  bool
	HandValue int // Value of the visible cards in the receiving hand
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// Public returns the event as an observer at the table would see it: a
// face-down card is blanked.
func (e CardDealtEvent) Public() CardDealtEvent {
	if e.FaceDown {
		e.Card = blackjack.Card{}
	}
	return e
}

// HoleRevealedEvent is published when the dealer turns the hole card
type HoleRevealedEvent struct {
	Round       int
	Card        blackjack.Card
	DealerValue int
	timestamp   time.Time
}

func (e HoleRevealedEvent) EventType() EventType { return EventTypeHoleRevealed }
func (e HoleRevealedEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published once a round reaches an outcome and the
// bankroll has been adjusted
type RoundSettledEvent struct {
	Record    RoundRecord
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// SessionOverEvent is published when the bankroll can no longer cover the
// minimum bet
type SessionOverEvent struct {
	Rounds    int
	Bankroll  int
	timestamp time.Time
}

func (e SessionOverEvent) EventType() EventType { return EventTypeSessionOver }
func (e SessionOverEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory, synchronous event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Function subscribers cannot be compared
// and must be wrapped in a pointer type to be removable.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
