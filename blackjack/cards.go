package blackjack

import "fmt"

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in deck order
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// String returns the long suit name
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	case Spades:
		return "Spades"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit glyph
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for Hearts and Diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The zero value is not a valid rank.
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const rankChars = "A23456789TJQK"

// String returns the single character rank ("A", "T", "K", ...)
func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return string(rankChars[r-1])
}

// Value is the blackjack value of the rank, counting an Ace as 11
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten && r <= King:
		return 10
	case r > Ace && r < Ten:
		return int(r)
	default:
		return 0
	}
}

// Card is an immutable playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Value returns the blackjack value of the card (Ace = 11, faces = 10)
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce reports whether the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Valid reports whether both rank and suit are in range
func (c Card) Valid() bool {
	return c.Rank >= Ace && c.Rank <= King && c.Suit <= Spades
}

// String returns the short form, e.g. "As", "Td", "9h"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank.String() + string("cdhs"[c.Suit])
}

// Name returns the long form, e.g. "A of Spades"
func (c Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// MarshalText encodes the card in its short form
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card: rank=%d suit=%d", c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card from its short form
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a string like "As" into a Card
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var rank Rank
	switch s[0] {
	case 'A', 'a':
		rank = Ace
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(s[0] - '0')
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	default:
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses each string into a Card
func ParseCards(ss ...string) ([]Card, error) {
	cards := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error. Intended for tests.
func MustParseCards(ss ...string) []Card {
	cards, err := ParseCards(ss...)
	if err != nil {
		panic(err)
	}
	return cards
}
