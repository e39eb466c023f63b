package game

import (
	"slices"
	"testing"

	"github.com/lox/twentyone/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standAndCollect(t *testing.T, s *Session) []Step {
	t.Helper()
	_, err := s.Deal()
	require.NoError(t, err)
	_, err = s.Stand()
	require.NoError(t, err)
	return slices.Collect(s.DealerTurn())
}

func stepKinds(steps []Step) []StepKind {
	kinds := make([]StepKind, len(steps))
	for i, st := range steps {
		kinds[i] = st.Kind
	}
	return kinds
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	t.Parallel()

	// Dealer starts on 6 + 5 = 11 and draws 2, 3, 4 to reach 20.
	s := NewTestSession([]string{"Tc", "6d", "8h", "5s", "2c", "3d", "4h"})
	steps := standAndCollect(t, s)

	assert.Equal(t, []StepKind{StepReveal, StepHit, StepHit, StepHit, StepSettle}, stepKinds(steps))
	assert.Equal(t, 11, steps[0].DealerValue)
	assert.Equal(t, 13, steps[1].DealerValue)
	assert.Equal(t, 16, steps[2].DealerValue)
	assert.Equal(t, 20, steps[3].DealerValue)
	assert.Equal(t, DealerWin, steps[4].Outcome)

	view := s.View()
	assert.Equal(t, 400, view.Bankroll)
	assert.Equal(t, 20, view.DealerValue)
	assert.True(t, view.DealerRevealed)
	assert.Equal(t, 0, view.DealerHidden)
}

func TestDealerStopsAtOrAboveThreshold(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 50; seed++ {
		s := NewSession(randutil.New(seed))
		_, err := s.Deal()
		require.NoError(t, err)
		if s.Phase() == PlayerTurn {
			_, err = s.Stand()
			require.NoError(t, err)
		}
		s.PlayDealer()
		require.Equal(t, Settled, s.Phase())
		if s.Round().PlayerBlackjack {
			continue
		}

		dealer := s.Round().Dealer
		assert.GreaterOrEqual(t, dealer.Value(), 17, "seed %d", seed)
		if len(dealer) > 2 {
			// The last card was only drawn because the dealer was below 17.
			assert.Less(t, dealer[:len(dealer)-1].Value(), 17, "seed %d", seed)
		}
	}
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	t.Parallel()

	s := NewTestSession([]string{"Tc", "Ah", "8h", "6s"})
	steps := standAndCollect(t, s)

	assert.Equal(t, []StepKind{StepReveal, StepSettle}, stepKinds(steps))
	assert.Equal(t, PlayerWin, steps[1].Outcome)
	assert.Equal(t, 600, s.Bankroll())
}

func TestDealerBust(t *testing.T) {
	t.Parallel()

	s := NewTestSession([]string{"Tc", "6d", "Th", "Ts", "Kc"})
	steps := standAndCollect(t, s)

	assert.Equal(t, []StepKind{StepReveal, StepHit, StepSettle}, stepKinds(steps))
	assert.Equal(t, 26, steps[1].DealerValue)
	assert.Equal(t, DealerBust, steps[2].Outcome)
	assert.Equal(t, 600, s.Bankroll())
	assert.Equal(t, "WIN! Dealer busts! You win! You won $100.", s.View().Message)
}

func TestPushOnEqualTotals(t *testing.T) {
	t.Parallel()

	s := NewTestSession([]string{"Tc", "Td", "8h", "8s"})
	steps := standAndCollect(t, s)

	assert.Equal(t, Push, steps[len(steps)-1].Outcome)
	assert.Equal(t, 500, s.Bankroll())
}

func TestCustomStandThreshold(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	rules.DealerStandsOn = 19
	s := NewTestSession([]string{"Tc", "Td", "9h", "7s", "2c"}, WithRules(rules))
	steps := standAndCollect(t, s)

	assert.Equal(t, []StepKind{StepReveal, StepHit, StepSettle}, stepKinds(steps))
	assert.Equal(t, 19, steps[1].DealerValue)
	assert.Equal(t, Push, steps[2].Outcome)
}

func TestDealerTurnResumes(t *testing.T) {
	t.Parallel()

	s := NewTestSession([]string{"Tc", "6d", "8h", "5s", "2c", "3d", "4h"})
	_, err := s.Deal()
	require.NoError(t, err)
	_, err = s.Stand()
	require.NoError(t, err)

	var first []Step
	for step := range s.DealerTurn() {
		first = append(first, step)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []StepKind{StepReveal, StepHit}, stepKinds(first))
	assert.Equal(t, DealerTurn, s.Phase())

	rest := slices.Collect(s.DealerTurn())
	assert.Equal(t, []StepKind{StepHit, StepHit, StepSettle}, stepKinds(rest))
	assert.Empty(t, slices.Collect(s.DealerTurn()), "finished sequence does not restart")
}

func TestDealerTurnEmptyOutsidePhase(t *testing.T) {
	t.Parallel()

	s := NewTestSession([]string{"Tc", "6d", "8h", "5s"})
	assert.Empty(t, slices.Collect(s.DealerTurn()))

	_, err := s.Deal()
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(s.DealerTurn()), "no dealer play during the player's turn")
}

func TestStepKindText(t *testing.T) {
	t.Parallel()

	for _, kind := range []StepKind{StepReveal, StepHit, StepSettle} {
		text, err := kind.MarshalText()
		require.NoError(t, err)
		var decoded StepKind
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, kind, decoded)
	}
	var k StepKind
	assert.Error(t, k.UnmarshalText([]byte("split")))
}
