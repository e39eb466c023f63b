package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/twentyone/blackjack"
)

// Session is one player's sequence of rounds against the dealer. It owns the
// deck, the bankroll and the current bet. A Session is driven by a single
// host and is not safe for concurrent use.
type Session struct {
	rules    Rules
	deck     *blackjack.Deck
	bankroll int
	bet      int
	round    *Round
	rounds   int

	bus    EventBus
	logger *log.Logger
	clock  quartz.Clock
}

// NewSession creates a session with required RNG and optional configuration.
// The RNG is required to make randomness explicit and testing deterministic.
//
//	rng := randutil.New(42)
//	s := game.NewSession(rng, game.WithRules(rules))
//	view, err := s.Deal()
func NewSession(rng *rand.Rand, opts ...SessionOption) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.rules.Validate(); err != nil {
		panic(fmt.Sprintf("invalid rules: %v", err))
	}

	deck := cfg.deck
	if deck == nil {
		if rng == nil {
			panic("rng is required for session creation")
		}
		deck = blackjack.NewDeck(rng)
	}

	bankroll := cfg.rules.StartingBankroll
	if cfg.bankroll != nil {
		bankroll = *cfg.bankroll
	}

	s := &Session{
		rules:  cfg.rules,
		deck:   deck,
		bus:    cfg.bus,
		logger: cfg.logger.WithPrefix("session"),
		clock:  cfg.clock,
	}
	s.Reset(bankroll)
	return s
}

// Reset abandons any round in progress and starts over with the given
// bankroll. This is the host-level restart; there is no other way to cancel
// a round.
func (s *Session) Reset(bankroll int) {
	if bankroll < 0 {
		bankroll = 0
	}
	s.round = nil
	s.rounds = 0
	s.bankroll = bankroll
	s.bet = ClampBet(s.rules.MinBet, s.rules.MinBet, bankroll)
}

// Rules returns the table rules
func (s *Session) Rules() Rules { return s.rules }

// Bankroll returns the current balance
func (s *Session) Bankroll() int { return s.bankroll }

// CurrentBet returns the bet that the next deal will use, or the bet of the
// round in progress
func (s *Session) CurrentBet() int {
	if s.round != nil && s.round.Phase != Settled {
		return s.round.Bet
	}
	return s.bet
}

// Rounds returns the number of rounds dealt since the last reset
func (s *Session) Rounds() int { return s.rounds }

// Deck exposes the session deck
func (s *Session) Deck() *blackjack.Deck { return s.deck }

// Events returns the bus session events are published on
func (s *Session) Events() EventBus { return s.bus }

// Phase returns the current phase. Before the first deal it is Betting.
func (s *Session) Phase() Phase {
	if s.round == nil {
		return Betting
	}
	return s.round.Phase
}

// Round returns the current round, or nil before the first deal
func (s *Session) Round() *Round { return s.round }

// Over reports that the bankroll can no longer cover the minimum bet
func (s *Session) Over() bool {
	return s.bankroll < s.rules.MinBet
}

func (s *Session) betweenRounds() bool {
	p := s.Phase()
	return p == Betting || p == Settled
}

// PlaceBet adjusts the bet by delta and clamps it to [MinBet, bankroll].
// It is only allowed between rounds.
func (s *Session) PlaceBet(delta int) (int, error) {
	if !s.betweenRounds() {
		return s.bet, fmt.Errorf("%w: bet during %s", ErrInvalidTransition, s.Phase())
	}
	if s.Over() {
		return s.bet, fmt.Errorf("%w: %w", ErrInvalidTransition, ErrSessionOver)
	}
	s.bet = ClampBet(s.bet+delta, s.rules.MinBet, s.bankroll)
	return s.bet, nil
}

// Deal starts a new round: the deck is reshuffled and the player and dealer
// receive two cards each, the dealer's second face down. A player blackjack
// moves straight to the dealer's turn.
func (s *Session) Deal() (View, error) {
	if !s.betweenRounds() {
		return s.View(), fmt.Errorf("%w: deal during %s", ErrInvalidTransition, s.Phase())
	}
	if s.Over() {
		return s.View(), fmt.Errorf("%w: %w", ErrInvalidTransition, ErrSessionOver)
	}
	if s.bet < s.rules.MinBet || s.bankroll < s.bet {
		return s.View(), fmt.Errorf("%w: %w: bet %d, bankroll %d, minimum %d", ErrInvalidTransition, ErrBetTooLow, s.bet, s.bankroll, s.rules.MinBet)
	}

	s.rounds++
	s.round = &Round{
		Number: s.rounds,
		Bet:    s.bet,
		Phase:  Dealing,
	}
	s.bus.Publish(RoundStartEvent{
		Round:     s.round.Number,
		Bet:       s.round.Bet,
		Bankroll:  s.bankroll,
		timestamp: s.clock.Now(),
	})

	s.deck.Shuffle()
	s.dealTo(SeatPlayer, false)
	s.dealTo(SeatDealer, false)
	s.dealTo(SeatPlayer, false)
	s.dealTo(SeatDealer, true)

	if s.round.Player.Value() == blackjack.Target {
		s.round.PlayerBlackjack = true
		s.round.Phase = DealerTurn
		s.logger.Debug("Player dealt blackjack", "round", s.round.Number, "cards", s.round.Player)
	} else {
		s.round.Phase = PlayerTurn
	}

	s.logger.Debug("Dealt round",
		"round", s.round.Number,
		"bet", s.round.Bet,
		"player", s.round.Player,
		"dealer_up", s.round.Dealer[0])

	return s.View(), nil
}

// Hit deals one card to the player. Going over 21 settles the round.
func (s *Session) Hit() (View, error) {
	if s.Phase() != PlayerTurn {
		return s.View(), fmt.Errorf("%w: hit during %s", ErrInvalidTransition, s.Phase())
	}

	s.dealTo(SeatPlayer, false)
	if s.round.Player.IsBust() {
		s.settle(PlayerBust)
	}
	return s.View(), nil
}

// Stand ends the player's turn. The dealer's play is then consumed through
// DealerTurn.
func (s *Session) Stand() (View, error) {
	if s.Phase() != PlayerTurn {
		return s.View(), fmt.Errorf("%w: stand during %s", ErrInvalidTransition, s.Phase())
	}
	s.round.Phase = DealerTurn
	return s.View(), nil
}

// PlayDealer runs the dealer's turn to completion without pacing
func (s *Session) PlayDealer() View {
	for range s.DealerTurn() {
	}
	return s.View()
}

func (s *Session) dealTo(seat Seat, faceDown bool) blackjack.Card {
	before := s.deck.Reshuffles()
	c := s.deck.Draw()
	if s.deck.Reshuffles() != before {
		s.logger.Info("Deck was empty, reshuffled a new deck", "round", s.round.Number)
	}

	var value int
	switch seat {
	case SeatPlayer:
		s.round.Player.Add(c)
		value = s.round.Player.Value()
	case SeatDealer:
		s.round.Dealer.Add(c)
		value = s.round.DealerVisible().Value()
	}

	s.bus.Publish(CardDealtEvent{
		Round:     s.round.Number,
		Seat:      seat,
		Card:      c,
		FaceDown:  faceDown,
		HandValue: value,
		timestamp: s.clock.Now(),
	})
	return c
}

func (s *Session) settle(outcome Outcome) {
	r := s.round
	before := s.bankroll
	delta := outcome.Delta(r.Bet)

	r.Outcome = outcome
	r.Phase = Settled
	s.bankroll += delta
	if s.bankroll < 0 {
		// Unreachable while bets are clamped to the bankroll.
		s.bankroll = 0
	}
	s.bet = ClampBet(r.Bet, s.rules.MinBet, s.bankroll)

	record := RoundRecord{
		Round:          r.Number,
		Bet:            r.Bet,
		Outcome:        outcome,
		Delta:          delta,
		BankrollBefore: before,
		BankrollAfter:  s.bankroll,
		PlayerCards:    r.Player.Clone(),
		DealerCards:    r.Dealer.Clone(),
		PlayerValue:    r.Player.Value(),
		DealerValue:    r.Dealer.Value(),
		SettledAt:      s.clock.Now(),
	}

	s.logger.Info("Round settled",
		"round", r.Number,
		"outcome", outcome,
		"player", record.PlayerValue,
		"dealer", record.DealerValue,
		"delta", delta,
		"bankroll", s.bankroll)

	s.bus.Publish(RoundSettledEvent{Record: record, timestamp: record.SettledAt})

	if s.Over() {
		s.logger.Info("Session over", "rounds", s.rounds, "bankroll", s.bankroll)
		s.bus.Publish(SessionOverEvent{
			Rounds:    s.rounds,
			Bankroll:  s.bankroll,
			timestamp: record.SettledAt,
		})
	}
}
