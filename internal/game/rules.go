package game

import (
	"errors"
	"fmt"
)

// Rules are the table limits and dealer policy for a session
type Rules struct {
	MinBet           int // Smallest allowed bet; also the bankroll needed to keep playing
	BetStep          int // Increment used by hosts when raising or lowering the bet
	StartingBankroll int
	DealerStandsOn   int // Dealer draws while below this total (hard rule, soft totals stand too)
}

// DefaultRules returns the house defaults: $100 minimum in $100 steps,
// $500 bankroll, dealer stands on 17.
func DefaultRules() Rules {
	return Rules{
		MinBet:           100,
		BetStep:          100,
		StartingBankroll: 500,
		DealerStandsOn:   17,
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	var errs []error
	if r.MinBet <= 0 {
		errs = append(errs, fmt.Errorf("min bet must be positive, got %d", r.MinBet))
	}
	if r.BetStep <= 0 {
		errs = append(errs, fmt.Errorf("bet step must be positive, got %d", r.BetStep))
	}
	if r.StartingBankroll < 0 {
		errs = append(errs, fmt.Errorf("starting bankroll cannot be negative, got %d", r.StartingBankroll))
	}
	if r.DealerStandsOn < 2 || r.DealerStandsOn > 21 {
		errs = append(errs, fmt.Errorf("dealer stand threshold must be between 2 and 21, got %d", r.DealerStandsOn))
	}
	return errors.Join(errs...)
}

// ClampBet limits bet to the bankroll and then raises it to the minimum.
// When the bankroll is below the minimum the result is the minimum, which
// the session treats as game over.
func ClampBet(bet, minBet, bankroll int) int {
	if bet > bankroll {
		bet = bankroll
	}
	if bet < minBet {
		bet = minBet
	}
	return bet
}
