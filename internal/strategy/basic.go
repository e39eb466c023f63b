package strategy

import (
	"fmt"

	"github.com/lox/twentyone/blackjack"
)

// Basic plays the hit/stand part of standard basic strategy. Doubling and
// splitting are not offered at this table, so those cells fall back to
// hitting.
type Basic struct{}

func NewBasic() *Basic {
	return &Basic{}
}

func (b *Basic) Name() string { return "basic" }

func (b *Basic) Decide(player blackjack.Hand, upcard blackjack.Card) Decision {
	value := player.Value()
	up := upcard.Value() // Ace counts 11
	if player.IsSoft() {
		return b.soft(value, up)
	}
	return b.hard(value, up)
}

func (b *Basic) hard(value, up int) Decision {
	switch {
	case value >= 17:
		return stand("hard %d", value)
	case value >= 13:
		if up <= 6 {
			return stand("hard %d against weak %d", value, up)
		}
		return hit("hard %d against strong %d", value, up)
	case value == 12:
		if up >= 4 && up <= 6 {
			return stand("hard 12 against %d", up)
		}
		return hit("hard 12 against %d", up)
	default:
		return hit("hard %d cannot bust", value)
	}
}

func (b *Basic) soft(value, up int) Decision {
	switch {
	case value >= 19:
		return stand("soft %d", value)
	case value == 18:
		if up >= 9 {
			return hit("soft 18 against %d", up)
		}
		return stand("soft 18 against %d", up)
	default:
		return hit("soft %d", value)
	}
}

func hit(format string, args ...any) Decision {
	return Decision{Action: Hit, Reasoning: fmt.Sprintf(format, args...)}
}

func stand(format string, args ...any) Decision {
	return Decision{Action: Stand, Reasoning: fmt.Sprintf(format, args...)}
}
