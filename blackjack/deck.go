package blackjack

import (
	rand "math/rand/v2"
)

// DeckSize is the number of unique cards in one deck
const DeckSize = 52

// Deck is a single 52-card draw pile. Draw never fails: an exhausted deck
// is rebuilt and reshuffled before dealing.
type Deck struct {
	cards      [DeckSize]Card
	next       int
	rng        *rand.Rand
	stacked    []Card // dealt before cards, used by NewStackedDeck
	reshuffles int
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals the given cards in order, across
// shuffles, before falling back to a normal deck shuffled with a fixed seed.
// Use it for tests and replays.
func NewStackedDeck(cards ...Card) *Deck {
	d := &Deck{rng: rand.New(rand.NewPCG(0, 0))}
	d.fill()
	d.next = DeckSize
	d.stacked = append([]Card(nil), cards...)
	return d
}

// fill lays out the ordered set: suits Clubs..Spades, ranks Ace..King
func (d *Deck) fill() {
	i := 0
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.next = 0
}

// Shuffle reorders the undealt cards using Fisher-Yates, walking from the
// last index down and swapping with a uniform index in [next, i]. Dealt
// cards stay out of the pile until the deck runs dry. Stacked cards are left
// in place and still deal first.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > d.next; i-- {
		j := d.next + d.rng.IntN(i-d.next+1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Reset restores the full ordered set and reshuffles
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}

// Draw deals the next card, rebuilding the deck first if it is empty
func (d *Deck) Draw() Card {
	if len(d.stacked) > 0 {
		c := d.stacked[0]
		d.stacked = d.stacked[1:]
		return c
	}
	if d.next >= len(d.cards) {
		d.Reset()
		d.reshuffles++
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining returns the number of cards left before a reshuffle
func (d *Deck) Remaining() int {
	return len(d.stacked) + len(d.cards) - d.next
}

// Reshuffles returns how many times Draw found the deck empty
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}

// Cards returns a copy of the undealt cards in draw order
func (d *Deck) Cards() []Card {
	out := make([]Card, 0, d.Remaining())
	out = append(out, d.stacked...)
	return append(out, d.cards[d.next:]...)
}
