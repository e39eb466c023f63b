package game

import (
	"fmt"
	"strings"

	"github.com/lox/twentyone/blackjack"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	Perspective string                      // Name used for the player's own cards, default "You"
	CardStyle   func(blackjack.Card) string // Renders a single card, e.g. with colour for the TUI
}

// EventFormatter provides centralized formatting for session events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	if opts.Perspective == "" {
		opts.Perspective = "You"
	}
	if opts.CardStyle == nil {
		opts.CardStyle = blackjack.Card.String
	}
	return &EventFormatter{opts: opts}
}

// Format renders any session event as one line. Unknown events format as "".
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return ef.FormatRoundStart(e)
	case CardDealtEvent:
		return ef.FormatCardDealt(e)
	case HoleRevealedEvent:
		return ef.FormatHoleRevealed(e)
	case RoundSettledEvent:
		return ef.FormatRoundSettled(e)
	case SessionOverEvent:
		return ef.FormatSessionOver(e)
	default:
		return ""
	}
}

// FormatRoundStart formats the start of a round
func (ef *EventFormatter) FormatRoundStart(event RoundStartEvent) string {
	return fmt.Sprintf("Round %d: bet $%d of $%d", event.Round, event.Bet, event.Bankroll)
}

// FormatCardDealt formats a dealt card. The hole card is never shown.
func (ef *EventFormatter) FormatCardDealt(event CardDealtEvent) string {
	if event.FaceDown {
		return "Dealer takes a card face down"
	}
	who := ef.opts.Perspective + " draw"
	if ef.opts.Perspective != "You" {
		who += "s"
	}
	if event.Seat == SeatDealer {
		who = "Dealer draws"
	}
	return fmt.Sprintf("%s %s (%d)", who, ef.FormatCards(blackjack.Hand{event.Card}), event.HandValue)
}

// FormatHoleRevealed formats the dealer turning over the hole card
func (ef *EventFormatter) FormatHoleRevealed(event HoleRevealedEvent) string {
	return fmt.Sprintf("Dealer reveals %s (%d)", ef.FormatCards(blackjack.Hand{event.Card}), event.DealerValue)
}

// FormatRoundSettled formats the outcome and bankroll change
func (ef *EventFormatter) FormatRoundSettled(event RoundSettledEvent) string {
	r := event.Record
	return fmt.Sprintf("%s %+d, bankroll $%d", r.Outcome.Message(), r.Delta, r.BankrollAfter)
}

// FormatSessionOver formats the end of a session
func (ef *EventFormatter) FormatSessionOver(event SessionOverEvent) string {
	return fmt.Sprintf("GAME OVER after %d rounds with $%d", event.Rounds, event.Bankroll)
}

// FormatCards formats cards as "[Kc 9d]"
func (ef *EventFormatter) FormatCards(cards blackjack.Hand) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		formatted[i] = ef.opts.CardStyle(card)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
