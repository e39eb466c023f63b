package game

import "fmt"

// Phase is the stage of a round
type Phase int

const (
	Betting Phase = iota
	Dealing
	PlayerTurn
	DealerTurn
	Settled
)

var phaseNames = map[Phase]string{
	Betting:    "betting",
	Dealing:    "dealing",
	PlayerTurn: "player_turn",
	DealerTurn: "dealer_turn",
	Settled:    "settled",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Outcome is the terminal result of a round
type Outcome int

const (
	NoOutcome Outcome = iota
	PlayerBust
	DealerBust
	PlayerWin
	DealerWin
	Push
	PlayerBlackjack
)

var outcomeNames = map[Outcome]string{
	NoOutcome:       "",
	PlayerBust:      "player_bust",
	DealerBust:      "dealer_bust",
	PlayerWin:       "player_win",
	DealerWin:       "dealer_win",
	Push:            "push",
	PlayerBlackjack: "player_blackjack",
}

// Outcomes lists every terminal outcome
var Outcomes = []Outcome{PlayerBust, DealerBust, PlayerWin, DealerWin, Push, PlayerBlackjack}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// IsWin reports outcomes that pay the player
func (o Outcome) IsWin() bool {
	return o == DealerBust || o == PlayerWin || o == PlayerBlackjack
}

// IsLoss reports outcomes that cost the player the bet
func (o Outcome) IsLoss() bool {
	return o == PlayerBust || o == DealerWin
}

// Delta is the bankroll change for the outcome. Every win, blackjack
// included, pays even money.
func (o Outcome) Delta(bet int) int {
	switch {
	case o.IsWin():
		return bet
	case o.IsLoss():
		return -bet
	default:
		return 0
	}
}

// Message is the short human description shown when the round ends
func (o Outcome) Message() string {
	switch o {
	case PlayerBust:
		return "Bust! You lose."
	case DealerBust:
		return "Dealer busts! You win!"
	case PlayerWin:
		return "You win!"
	case DealerWin:
		return "Dealer wins."
	case Push:
		return "It's a tie."
	case PlayerBlackjack:
		return "Blackjack! You win!"
	default:
		return ""
	}
}

// Compare decides a round where neither side has bust. Bust checks happen
// before this is called, player first.
func Compare(playerValue, dealerValue int) Outcome {
	switch {
	case playerValue > dealerValue:
		return PlayerWin
	case dealerValue > playerValue:
		return DealerWin
	default:
		return Push
	}
}
