package blackjack

import "strings"

const (
	// Target is the best possible hand value
	Target = 21
	// softAdjust is the difference between an Ace counted as 11 and as 1
	softAdjust = 10
)

// Hand is an ordered set of cards held by the player or the dealer
type Hand []Card

// Value computes the best blackjack total for the cards: Aces count as 11
// and are downgraded to 1, one at a time, while the total exceeds 21.
func Value(cards []Card) int {
	total, _ := score(cards)
	return total
}

// score returns the total and the number of Aces still counted as 11
func score(cards []Card) (total, soft int) {
	for _, c := range cards {
		total += c.Value()
		if c.IsAce() {
			soft++
		}
	}
	for total > Target && soft > 0 {
		total -= softAdjust
		soft--
	}
	return total, soft
}

// Add appends a dealt card
func (h *Hand) Add(c Card) {
	*h = append(*h, c)
}

// Value returns the best total for the hand
func (h Hand) Value() int {
	return Value(h)
}

// IsSoft reports whether an Ace is still being counted as 11
func (h Hand) IsSoft() bool {
	_, soft := score(h)
	return soft > 0
}

// IsBlackjack reports a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == Target
}

// IsBust reports a total over 21
func (h Hand) IsBust() bool {
	return h.Value() > Target
}

// Clone returns an independent copy
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	return append(Hand(nil), h...)
}

// String renders the hand as space-separated short cards
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
