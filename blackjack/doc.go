// Package blackjack provides the card, deck and hand scoring primitives for
// single-deck blackjack.
//
// Cards are small comparable values. A Deck holds exactly one 52-card set
// and is shuffled with an injected *rand.Rand so that tests can be
// deterministic:
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	d := blackjack.NewDeck(rng)
//	var h blackjack.Hand
//	h.Add(d.Draw())
//	h.Add(d.Draw())
//	if h.IsBlackjack() {
//	    // ...
//	}
//
// Draw never fails; an exhausted deck is rebuilt and reshuffled.
package blackjack
