package blackjack

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func assertFullDeck(t *testing.T, cards []Card) {
	t.Helper()
	require.Len(t, cards, DeckSize)
	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestNewDeck(t *testing.T) {
	t.Parallel()

	d := NewDeck(testRNG(1))
	assert.Equal(t, DeckSize, d.Remaining())
	assertFullDeck(t, d.Cards())

	assert.Panics(t, func() { NewDeck(nil) })
}

func TestShufflePreservesCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(testRNG(7))
	for range 20 {
		d.Shuffle()
		assertFullDeck(t, d.Cards())
	}
}

func TestShuffleKeepsDealtCardsOut(t *testing.T) {
	t.Parallel()

	d := NewDeck(testRNG(11))
	dealt := make(map[Card]bool)
	for range 10 {
		dealt[d.Draw()] = true
	}
	before := d.Cards()
	require.Len(t, before, DeckSize-10)

	d.Shuffle()
	after := d.Cards()
	assert.Equal(t, DeckSize-10, d.Remaining())
	assert.ElementsMatch(t, before, after)
	for _, c := range after {
		assert.False(t, dealt[c], "dealt card %s back in the pile", c)
	}
	assert.Equal(t, 0, d.Reshuffles())
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(testRNG(42))
	b := NewDeck(testRNG(42))
	assert.Equal(t, a.Cards(), b.Cards())

	c := NewDeck(testRNG(43))
	assert.NotEqual(t, a.Cards(), c.Cards())
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	t.Parallel()

	// Track where the ordered deck's first card lands.
	const trials = DeckSize * 1000
	target := NewCard(Ace, Clubs)
	var counts [DeckSize]int

	d := NewDeck(testRNG(99))
	for range trials {
		d.Reset()
		for i, c := range d.Cards() {
			if c == target {
				counts[i]++
				break
			}
		}
	}

	for pos, n := range counts {
		assert.InDelta(t, 1000, n, 200, "position %d", pos)
	}
}

func TestDrawReshufflesWhenEmpty(t *testing.T) {
	t.Parallel()

	d := NewDeck(testRNG(3))
	drawn := make([]Card, 0, DeckSize)
	for range DeckSize {
		drawn = append(drawn, d.Draw())
	}
	assertFullDeck(t, drawn)
	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, 0, d.Reshuffles())

	c := d.Draw()
	assert.True(t, c.Valid())
	assert.Equal(t, 1, d.Reshuffles())
	assert.Equal(t, DeckSize-1, d.Remaining())
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("As", "Kd", "9h")
	d := NewStackedDeck(cards...)
	assert.Equal(t, 3, d.Remaining())

	d.Shuffle()
	assert.Equal(t, cards[0], d.Draw())
	assert.Equal(t, cards[1], d.Draw())
	assert.Equal(t, cards[2], d.Draw())

	// Falls back to a regular deck afterwards.
	next := d.Draw()
	assert.True(t, next.Valid())
	assert.Equal(t, 1, d.Reshuffles())
	assert.Equal(t, DeckSize-1, d.Remaining())
}
