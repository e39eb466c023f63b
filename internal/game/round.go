package game

import (
	"time"

	"github.com/lox/twentyone/blackjack"
)

// holeIndex is the dealer's second card, dealt face down
const holeIndex = 1

// Round is the state of a single deal
type Round struct {
	Number          int
	Bet             int
	Phase           Phase
	Outcome         Outcome
	Player          blackjack.Hand
	Dealer          blackjack.Hand
	PlayerBlackjack bool // Player was dealt 21; dealer only reveals
	HoleRevealed    bool
}

// DealerVisible returns the dealer cards an observer can see
func (r *Round) DealerVisible() blackjack.Hand {
	if r.HoleRevealed || len(r.Dealer) <= holeIndex {
		return r.Dealer.Clone()
	}
	visible := make(blackjack.Hand, 0, len(r.Dealer)-1)
	for i, c := range r.Dealer {
		if i != holeIndex {
			visible = append(visible, c)
		}
	}
	return visible
}

// hiddenCount is the number of dealer cards still face down
func (r *Round) hiddenCount() int {
	if r.HoleRevealed || len(r.Dealer) <= holeIndex {
		return 0
	}
	return 1
}

// RoundRecord is the settled summary of a round, used for history and
// persistence
type RoundRecord struct {
	Round          int            `json:"round"`
	Bet            int            `json:"bet"`
	Outcome        Outcome        `json:"outcome"`
	Delta          int            `json:"delta"`
	BankrollBefore int            `json:"bankrollBefore"`
	BankrollAfter  int            `json:"bankrollAfter"`
	PlayerCards    blackjack.Hand `json:"playerCards"`
	DealerCards    blackjack.Hand `json:"dealerCards"`
	PlayerValue    int            `json:"playerValue"`
	DealerValue    int            `json:"dealerValue"`
	SettledAt      time.Time      `json:"settledAt"`
}
