package strategy

import (
	rand "math/rand/v2"

	"github.com/lox/twentyone/blackjack"
)

// Random flips a coin for every decision below 21
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(player blackjack.Hand, _ blackjack.Card) Decision {
	if player.Value() >= blackjack.Target {
		return Decision{Action: Stand, Reasoning: "random holding 21"}
	}
	if r.rng.IntN(2) == 0 {
		return Decision{Action: Hit, Reasoning: "random hit"}
	}
	return Decision{Action: Stand, Reasoning: "random stand"}
}
