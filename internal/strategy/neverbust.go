package strategy

import "github.com/lox/twentyone/blackjack"

// NeverBust never takes a card that could break the hand. Soft hands are
// safe to draw to, so they hit until 18.
type NeverBust struct{}

func NewNeverBust() *NeverBust {
	return &NeverBust{}
}

func (n *NeverBust) Name() string { return "never-bust" }

func (n *NeverBust) Decide(player blackjack.Hand, _ blackjack.Card) Decision {
	value := player.Value()
	if player.IsSoft() {
		if value < 18 {
			return Decision{Action: Hit, Reasoning: "soft hand cannot bust"}
		}
		return Decision{Action: Stand, Reasoning: "soft 18 or better"}
	}
	if value < 12 {
		return Decision{Action: Hit, Reasoning: "hard total under 12 cannot bust"}
	}
	return Decision{Action: Stand, Reasoning: "hard 12 or more could bust"}
}
