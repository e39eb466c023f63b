// Package strategy holds the automated players the simulator pits against
// the dealer. Each strategy only chooses between hitting and standing.
package strategy

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/twentyone/blackjack"
)

// Action is a player decision
type Action int

const (
	Stand Action = iota
	Hit
)

func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is an action with the reason it was chosen
type Decision struct {
	Action    Action
	Reasoning string
}

// Strategy decides the player's next action from their hand and the
// dealer's face-up card
type Strategy interface {
	Name() string
	Decide(player blackjack.Hand, upcard blackjack.Card) Decision
}

// Option configures a strategy built by New
type Option func(*options)

type options struct {
	rng      *rand.Rand
	standsOn int
}

// WithDealerStandsOn sets the total the dealer strategy stands on. It
// defaults to 17 and should follow the table's DealerStandsOn rule.
func WithDealerStandsOn(total int) Option {
	return func(o *options) {
		o.standsOn = total
	}
}

var constructors = map[string]func(o *options) Strategy{
	"basic":      func(*options) Strategy { return NewBasic() },
	"dealer":     func(o *options) Strategy { return NewDealer(o.standsOn) },
	"never-bust": func(*options) Strategy { return NewNeverBust() },
	"random":     func(o *options) Strategy { return NewRandom(o.rng) },
}

// Names lists the registered strategies in sorted order
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New creates a strategy by name. rng is only used by strategies that need
// randomness and may be nil otherwise.
func New(name string, rng *rand.Rand, opts ...Option) (Strategy, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (expected one of %v)", name, Names())
	}
	if name == "random" && rng == nil {
		return nil, fmt.Errorf("strategy %q requires a random source", name)
	}

	o := &options{rng: rng, standsOn: 17}
	for _, opt := range opts {
		opt(o)
	}
	if o.standsOn < 2 || o.standsOn > blackjack.Target {
		return nil, fmt.Errorf("dealer threshold %d out of range", o.standsOn)
	}
	return ctor(o), nil
}
