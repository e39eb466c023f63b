package statistics

import (
	"math"
	"testing"

	"github.com/lox/twentyone/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.WinRate() != 0 {
		t.Errorf("Expected win rate of 0 for empty stats, got %f", stats.WinRate())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	results := []RoundResult{
		{Units: 1, Outcome: game.PlayerBlackjack, Cards: 2},
		{Units: -1, Outcome: game.PlayerBust, Cards: 4},
		{Units: 1, Outcome: game.DealerBust, Cards: 2},
		{Units: 0, Outcome: game.Push, Cards: 3},
		{Units: -1, Outcome: game.DealerWin, Cards: 2},
	}
	for _, r := range results {
		stats.Add(r)
	}

	if stats.Rounds != 5 {
		t.Errorf("Expected 5 rounds, got %d", stats.Rounds)
	}
	if stats.Wins != 2 || stats.Losses != 2 || stats.Pushes != 1 {
		t.Errorf("Expected 2/2/1 wins/losses/pushes, got %d/%d/%d", stats.Wins, stats.Losses, stats.Pushes)
	}
	if stats.Blackjacks != 1 || stats.PlayerBusts != 1 || stats.DealerBusts != 1 {
		t.Errorf("Unexpected blackjack/bust counts: %+v", stats)
	}
	if stats.Outcomes[game.Push] != 1 {
		t.Errorf("Expected 1 push outcome, got %d", stats.Outcomes[game.Push])
	}
	if stats.MaxCards != 4 {
		t.Errorf("Expected max cards 4, got %d", stats.MaxCards)
	}
	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0, got %f", stats.Mean())
	}
	// Values are 1, -1, 1, 0, -1: sum of squares 4 over n-1 = 4.
	if stats.Variance() != 1 {
		t.Errorf("Expected variance of 1, got %f", stats.Variance())
	}
	if math.Abs(stats.StdError()-1/math.Sqrt(5)) > 1e-9 {
		t.Errorf("Expected stderr of 1/sqrt(5), got %f", stats.StdError())
	}
	low, high := stats.ConfidenceInterval95()
	if math.Abs(high-low-2*1.96/math.Sqrt(5)) > 1e-9 {
		t.Errorf("Unexpected confidence interval [%f, %f]", low, high)
	}
	if stats.WinRate() != 0.4 {
		t.Errorf("Expected win rate 0.4, got %f", stats.WinRate())
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_MedianPercentile(t *testing.T) {
	stats := &Statistics{}
	for _, u := range []float64{-1, 1, 0, 1} {
		stats.Add(RoundResult{Units: u, Outcome: game.PlayerWin})
	}

	if stats.Median() != 0.5 {
		t.Errorf("Expected median of 0.5, got %f", stats.Median())
	}
	if stats.Percentile(0) != -1 {
		t.Errorf("Expected 0th percentile of -1, got %f", stats.Percentile(0))
	}
	if stats.Percentile(1) != 1 {
		t.Errorf("Expected 100th percentile of 1, got %f", stats.Percentile(1))
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	a.Add(RoundResult{Units: 1, Outcome: game.PlayerWin, Cards: 3})
	b := &Statistics{}
	b.Add(RoundResult{Units: -1, Outcome: game.DealerWin, Cards: 5})
	b.Add(RoundResult{Units: 0, Outcome: game.Push, Cards: 2})

	merged := &Statistics{}
	merged.Merge(a)
	merged.Merge(b)

	if merged.Rounds != 3 {
		t.Errorf("Expected 3 rounds, got %d", merged.Rounds)
	}
	if len(merged.Values) != 3 || merged.Values[0] != 1 || merged.Values[1] != -1 {
		t.Errorf("Expected values in merge order, got %v", merged.Values)
	}
	if merged.MaxCards != 5 {
		t.Errorf("Expected max cards 5, got %d", merged.MaxCards)
	}
	if err := merged.Validate(); err != nil {
		t.Errorf("Expected merged stats to validate, got %v", err)
	}
}

func TestStatistics_ValidateMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Units: 1, Outcome: game.PlayerWin})
	stats.Wins++

	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error when counts disagree")
	}
}
