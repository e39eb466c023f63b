// Package pacing plays a dealer turn back in real time. Every step is
// handed to the caller as soon as it happens, followed by a pause sized to
// the kind of step so a person watching can follow along.
package pacing

import (
	"context"
	"iter"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/twentyone/internal/game"
)

// Delays is the pause after each kind of dealer step
type Delays struct {
	Reveal time.Duration
	Hit    time.Duration
	Settle time.Duration
}

// DefaultDelays matches the table's usual rhythm: a second after the hole
// card, a second and a half after each dealer draw, nothing after settling.
func DefaultDelays() Delays {
	return Delays{
		Reveal: time.Second,
		Hit:    1500 * time.Millisecond,
	}
}

// For returns the pause that follows a step of the given kind
func (d Delays) For(kind game.StepKind) time.Duration {
	switch kind {
	case game.StepReveal:
		return d.Reveal
	case game.StepHit:
		return d.Hit
	case game.StepSettle:
		return d.Settle
	default:
		return 0
	}
}

// Pacer consumes dealer steps on a clock
type Pacer struct {
	clock  quartz.Clock
	delays Delays
}

// New creates a pacer. A nil clock uses the real clock.
func New(clock quartz.Clock, delays Delays) *Pacer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Pacer{clock: clock, delays: delays}
}

// Delays returns the configured pauses
func (p *Pacer) Delays() Delays {
	return p.delays
}

// Run pulls steps one at a time, calls fn with each and then waits the
// step's delay. It stops at the end of the sequence, on the first error
// from fn, or when ctx is cancelled. Steps already handed to fn stay applied;
// the rest of the sequence can be resumed by the caller.
func (p *Pacer) Run(ctx context.Context, steps iter.Seq[game.Step], fn func(game.Step) error) error {
	for step := range steps {
		if err := fn(step); err != nil {
			return err
		}
		if err := p.Wait(ctx, step.Kind); err != nil {
			return err
		}
	}
	return nil
}

// Wait blocks for the delay that follows kind
func (p *Pacer) Wait(ctx context.Context, kind game.StepKind) error {
	d := p.delays.For(kind)
	if d <= 0 {
		return ctx.Err()
	}

	timer := p.clock.NewTimer(d, "pacing", kind.String())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
