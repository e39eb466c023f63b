package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/twentyone/blackjack"
	"github.com/lox/twentyone/internal/game"
)

// MessageType identifies a websocket message
type MessageType string

// Client → Server
const (
	MessageTypeBet   MessageType = "bet"
	MessageTypeDeal  MessageType = "deal"
	MessageTypeHit   MessageType = "hit"
	MessageTypeStand MessageType = "stand"
	MessageTypeReset MessageType = "reset"
)

// Server → Client
const (
	MessageTypeState MessageType = "state"
	MessageTypeStep  MessageType = "step"
	MessageTypeEvent MessageType = "event"
	MessageTypeError MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	CodeInvalidTransition = "invalid_transition"
	CodeSessionOver       = "session_over"
	CodeBetTooLow         = "bet_too_low"
	CodeInvalidMessage    = "invalid_message"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the given timestamp
func NewMessage(messageType MessageType, data any, at time.Time) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: at,
	}, nil
}

// Client → Server Messages

// BetData changes the bet by Delta before the next deal
type BetData struct {
	Delta int `json:"delta"`
}

// ResetData restarts the session. A zero bankroll uses the table default.
type ResetData struct {
	Bankroll int `json:"bankroll,omitempty"`
}

// Server → Client Messages

// StateData is the full table view, sent after every command
type StateData struct {
	SessionID string    `json:"sessionId"`
	View      game.View `json:"view"`
}

// StepData is one paced step of the dealer's turn
type StepData struct {
	Step game.Step `json:"step"`
	View game.View `json:"view"`
}

// EventData carries a game event. Only the fields relevant to Event are set.
type EventData struct {
	Event       game.EventType    `json:"event"`
	Round       int               `json:"round,omitempty"`
	Bet         int               `json:"bet,omitempty"`
	Bankroll    int               `json:"bankroll,omitempty"`
	Seat        game.Seat         `json:"seat,omitempty"`
	Card        blackjack.Card    `json:"card,omitzero"`
	FaceDown    bool              `json:"faceDown,omitempty"`
	HandValue   int               `json:"handValue,omitempty"`
	DealerValue int               `json:"dealerValue,omitempty"`
	Record      *game.RoundRecord `json:"record,omitempty"`
	Rounds      int               `json:"rounds,omitempty"`
	Text        string            `json:"text"` // Human-readable line for simple clients
}

var eventFormatter = game.NewEventFormatter(game.FormattingOptions{})

// EventDataFromGame converts an event for the wire. Face-down cards are
// never sent.
func EventDataFromGame(event game.GameEvent) EventData {
	data := EventData{Event: event.EventType()}
	switch e := event.(type) {
	case game.RoundStartEvent:
		data.Round, data.Bet, data.Bankroll = e.Round, e.Bet, e.Bankroll
	case game.CardDealtEvent:
		e = e.Public()
		data.Round, data.Seat, data.Card = e.Round, e.Seat, e.Card
		data.FaceDown, data.HandValue = e.FaceDown, e.HandValue
	case game.HoleRevealedEvent:
		data.Round, data.Card, data.DealerValue = e.Round, e.Card, e.DealerValue
	case game.RoundSettledEvent:
		record := e.Record
		data.Round, data.Record, data.Bankroll = record.Round, &record, record.BankrollAfter
	case game.SessionOverEvent:
		data.Rounds, data.Bankroll = e.Rounds, e.Bankroll
	}
	data.Text = eventFormatter.Format(event)
	return data
}

// ErrorData reports a rejected command
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCode maps a session error to its wire code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrSessionOver):
		return CodeSessionOver
	case errors.Is(err, game.ErrBetTooLow):
		return CodeBetTooLow
	case errors.Is(err, game.ErrInvalidTransition):
		return CodeInvalidTransition
	default:
		return CodeInvalidMessage
	}
}

// RulesData is served on GET /rules
type RulesData struct {
	MinBet           int     `json:"minBet"`
	BetStep          int     `json:"betStep"`
	StartingBankroll int     `json:"startingBankroll"`
	DealerStandsOn   int     `json:"dealerStandsOn"`
	RevealDelay      float64 `json:"revealDelaySeconds"`
	HitDelay         float64 `json:"hitDelaySeconds"`
	SettleDelay      float64 `json:"settleDelaySeconds"`
}
