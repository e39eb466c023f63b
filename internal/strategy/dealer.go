package strategy

import (
	"fmt"

	"github.com/lox/twentyone/blackjack"
)

// Dealer mirrors the house: hit below the threshold, stand at or above it
type Dealer struct {
	standsOn int
}

// NewDealer creates a strategy that stands on standsOn or more
func NewDealer(standsOn int) *Dealer {
	return &Dealer{standsOn: standsOn}
}

func (d *Dealer) Name() string { return "dealer" }

func (d *Dealer) Decide(player blackjack.Hand, _ blackjack.Card) Decision {
	if player.Value() < d.standsOn {
		return Decision{Action: Hit, Reasoning: fmt.Sprintf("below %d", d.standsOn)}
	}
	return Decision{Action: Stand, Reasoning: fmt.Sprintf("%d or more", d.standsOn)}
}
