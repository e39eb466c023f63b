package game

import (
	"fmt"

	"github.com/lox/twentyone/blackjack"
)

// View is the display state a host renders after every operation
type View struct {
	Round          int            `json:"round"`
	Phase          Phase          `json:"phase"`
	Bet            int            `json:"bet"`
	Bankroll       int            `json:"bankroll"`
	MinBet         int            `json:"minBet"`
	PlayerCards    blackjack.Hand `json:"playerCards"`
	PlayerValue    int            `json:"playerValue"`
	DealerCards    blackjack.Hand `json:"dealerCards"` // Visible cards only
	DealerHidden   int            `json:"dealerHidden"`
	DealerValue    int            `json:"dealerValue"` // Visible value until the hole card is revealed
	DealerRevealed bool           `json:"dealerRevealed"`
	Outcome        Outcome        `json:"outcome,omitempty"`
	Message        string         `json:"message"`
	Over           bool           `json:"over"`
}

// View builds the current display state
func (s *Session) View() View {
	v := View{
		Phase:    s.Phase(),
		Bet:      s.CurrentBet(),
		Bankroll: s.bankroll,
		MinBet:   s.rules.MinBet,
		Over:     s.Over(),
	}

	if r := s.round; r != nil {
		v.Round = r.Number
		v.PlayerCards = r.Player.Clone()
		v.PlayerValue = r.Player.Value()
		v.DealerCards = r.DealerVisible()
		v.DealerHidden = r.hiddenCount()
		v.DealerValue = v.DealerCards.Value()
		v.DealerRevealed = r.HoleRevealed
		v.Outcome = r.Outcome
	}

	v.Message = s.message(v)
	return v
}

// DealerScore renders the dealer total the way the table shows it, with a
// "+ ?" while a card is face down
func (v View) DealerScore() string {
	if v.DealerHidden > 0 {
		return fmt.Sprintf("%d + ?", v.DealerValue)
	}
	return fmt.Sprintf("%d", v.DealerValue)
}

func (s *Session) message(v View) string {
	switch v.Phase {
	case Betting:
		if v.Over {
			return "GAME OVER. You ran out of money."
		}
		return fmt.Sprintf("Place your bet (Minimum $%d). You have $%d.", s.rules.MinBet, v.Bankroll)
	case PlayerTurn:
		return fmt.Sprintf("Round started! Bet: $%d. Your turn.", v.Bet)
	case DealerTurn:
		if s.round.PlayerBlackjack && !s.round.HoleRevealed {
			return "Blackjack! Dealer checks the hole card..."
		}
		if !s.round.HoleRevealed {
			return "Player stands. Dealer's turn..."
		}
		return "Dealer hits..."
	case Settled:
		bet := s.round.Bet
		var msg string
		switch {
		case v.Outcome.IsWin():
			msg = fmt.Sprintf("WIN! %s You won $%d.", v.Outcome.Message(), bet)
		case v.Outcome == Push:
			msg = fmt.Sprintf("PUSH! %s Your bet ($%d) is returned.", v.Outcome.Message(), bet)
		default:
			msg = fmt.Sprintf("LOSS! %s You lost $%d.", v.Outcome.Message(), bet)
		}
		if v.Over {
			return fmt.Sprintf("%s GAME OVER! You ran out of money. Final total: $%d", msg, v.Bankroll)
		}
		return msg
	default:
		return ""
	}
}
