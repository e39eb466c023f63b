package game

import (
	"fmt"
	"iter"

	"github.com/lox/twentyone/blackjack"
)

// StepKind identifies a dealer step
type StepKind int

const (
	StepReveal StepKind = iota + 1 // Hole card turned over
	StepHit                        // Dealer drew a card
	StepSettle                     // Round settled
)

var stepNames = map[StepKind]string{
	StepReveal: "reveal",
	StepHit:    "hit",
	StepSettle: "settle",
}

func (k StepKind) String() string {
	if name, ok := stepNames[k]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(k))
}

// MarshalText encodes the step kind by name
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a step kind name
func (k *StepKind) UnmarshalText(text []byte) error {
	for kind, name := range stepNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", text)
}

// Step is one suspend point of the dealer's turn. It has already been
// applied to the session when the host receives it.
type Step struct {
	Kind        StepKind       `json:"kind"`
	Card        blackjack.Card `json:"card,omitzero"`
	DealerValue int            `json:"dealerValue"`
	Outcome     Outcome        `json:"outcome,omitempty"`
}

// DealerTurn returns the dealer's play as a lazy, finite sequence. The hole
// card is revealed first; then, unless the player has blackjack, the dealer
// draws while below the stand threshold; the last step settles the round.
//
// Each step is applied before it is yielded. Stopping early and calling
// DealerTurn again resumes from the current state without replaying steps.
// Outside the dealer's turn the sequence is empty.
func (s *Session) DealerTurn() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for {
			step, ok := s.advanceDealer()
			if !ok {
				return
			}
			if !yield(step) {
				return
			}
		}
	}
}

func (s *Session) advanceDealer() (Step, bool) {
	if s.Phase() != DealerTurn {
		return Step{}, false
	}
	r := s.round

	if !r.HoleRevealed {
		r.HoleRevealed = true
		hole := r.Dealer[holeIndex]
		value := r.Dealer.Value()
		s.bus.Publish(HoleRevealedEvent{
			Round:       r.Number,
			Card:        hole,
			DealerValue: value,
			timestamp:   s.clock.Now(),
		})
		return Step{Kind: StepReveal, Card: hole, DealerValue: value}, true
	}

	dealerValue := r.Dealer.Value()

	if r.PlayerBlackjack {
		outcome := PlayerBlackjack
		if dealerValue == blackjack.Target {
			outcome = Push
		}
		s.settle(outcome)
		return Step{Kind: StepSettle, DealerValue: dealerValue, Outcome: outcome}, true
	}

	if dealerValue < s.rules.DealerStandsOn {
		c := s.dealTo(SeatDealer, false)
		return Step{Kind: StepHit, Card: c, DealerValue: r.Dealer.Value()}, true
	}

	outcome := s.decide()
	s.settle(outcome)
	return Step{Kind: StepSettle, DealerValue: dealerValue, Outcome: outcome}, true
}

// decide applies the sequential bust checks and then compares totals
func (s *Session) decide() Outcome {
	playerValue := s.round.Player.Value()
	dealerValue := s.round.Dealer.Value()
	switch {
	case playerValue > blackjack.Target:
		return PlayerBust
	case dealerValue > blackjack.Target:
		return DealerBust
	default:
		return Compare(playerValue, dealerValue)
	}
}
