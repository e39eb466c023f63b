package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cards     []string
		want      int
		soft      bool
		blackjack bool
		bust      bool
	}{
		{name: "empty hand", cards: nil, want: 0},
		{name: "single ace", cards: []string{"Ah"}, want: 11, soft: true},
		{name: "ace king", cards: []string{"As", "Kd"}, want: 21, soft: true, blackjack: true},
		{name: "ten ace", cards: []string{"Tc", "Ah"}, want: 21, soft: true, blackjack: true},
		{name: "two aces and nine", cards: []string{"As", "Ad", "9h"}, want: 21, soft: true},
		{name: "ace ace nine five", cards: []string{"Ac", "Ah", "9c", "5d"}, want: 16},
		{name: "four aces", cards: []string{"Ac", "Ad", "Ah", "As"}, want: 14, soft: true},
		{name: "king queen two busts", cards: []string{"Kc", "Qd", "2h"}, want: 22, bust: true},
		{name: "three card twenty one", cards: []string{"7c", "7d", "7h"}, want: 21},
		{name: "soft seventeen", cards: []string{"Ah", "6s"}, want: 17, soft: true},
		{name: "hard seventeen from soft", cards: []string{"Ah", "6s", "Td"}, want: 17},
		{name: "face cards", cards: []string{"Kh", "Qh"}, want: 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := Hand(MustParseCards(tc.cards...))
			assert.Equal(t, tc.want, h.Value())
			assert.Equal(t, tc.want, Value(h))
			assert.Equal(t, tc.soft, h.IsSoft(), "soft")
			assert.Equal(t, tc.blackjack, h.IsBlackjack(), "blackjack")
			assert.Equal(t, tc.bust, h.IsBust(), "bust")
		})
	}
}

func TestValueAceAceNine(t *testing.T) {
	t.Parallel()

	// 11 + 11 + 9 = 31; one downgrade already reaches 21, so the second ace
	// stays soft.
	h := Hand(MustParseCards("As", "Ad"))
	h.Add(NewCard(Nine, Hearts))
	assert.Equal(t, 21, h.Value())

	h = Hand(MustParseCards("As", "Ad", "9h", "Tc"))
	assert.Equal(t, 21, h.Value())
}

func TestValueBounds(t *testing.T) {
	t.Parallel()

	// For every two and three card combination the best total lies between
	// the all-aces-as-one total and the all-aces-as-eleven total, and it only
	// exceeds 21 when even the hard total does.
	d := NewDeck(testRNG(5))
	for range 2000 {
		h := Hand{d.Draw(), d.Draw(), d.Draw()}
		hard, aces := 0, 0
		for _, c := range h {
			hard += c.Value()
			if c.IsAce() {
				hard -= 10
				aces++
			}
		}
		v := h.Value()
		assert.GreaterOrEqual(t, v, hard)
		assert.LessOrEqual(t, v, hard+10*aces)
		assert.Equal(t, 0, (v-hard)%10)
		if v > Target {
			assert.Equal(t, hard, v, "bust hand %s should have every ace downgraded", h)
		}
	}
}

func TestHandClone(t *testing.T) {
	t.Parallel()

	h := Hand(MustParseCards("As", "Kd"))
	c := h.Clone()
	c.Add(NewCard(Two, Clubs))

	assert.Len(t, h, 2)
	assert.Len(t, c, 3)
	assert.Equal(t, "As Kd", h.String())
	assert.Nil(t, Hand(nil).Clone())
}
