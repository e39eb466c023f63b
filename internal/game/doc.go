// Package game implements the blackjack round state machine.
//
// The main type is Session, which owns the deck, the bankroll and the bet,
// and drives each round through Betting, Dealing, PlayerTurn, DealerTurn
// and Settled.
//
// # Basic Usage
//
//	s := game.NewSession(randutil.New(42))
//	s.PlaceBet(100)
//	view, err := s.Deal()
//	if view.Phase == game.PlayerTurn {
//	    view, err = s.Hit()
//	    view, err = s.Stand()
//	}
//	for step := range s.DealerTurn() {
//	    // animate step, then continue
//	}
//
// Operations that are not allowed in the current phase return an error
// wrapping ErrInvalidTransition and leave the session untouched.
//
// # Dealer pacing
//
// DealerTurn yields one Step per suspend point: the hole card reveal, each
// dealer draw, and the settlement. Hosts pace the sequence themselves; see
// the pacing package for a clock-driven consumer.
//
// # Deterministic Testing
//
// Pass a seeded RNG, or stack the deck to control every card:
//
//	deck := blackjack.NewStackedDeck(blackjack.MustParseCards("Ah", "9c", "Kd", "8s")...)
//	s := game.NewSession(nil, game.WithDeck(deck))
//
// Cards are dealt player, dealer, player, dealer (face down).
package game
