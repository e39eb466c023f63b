package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/twentyone/internal/game"
)

// RoundResult represents the outcome of a single simulated round
type RoundResult struct {
	Units   float64      // Net result in bets won/lost
	Outcome game.Outcome // How the round was settled
	Seed    int64        // Worker seed that produced the round (for replay)
	Cards   int          // Cards the player ended with
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Wins        int
	Losses      int
	Pushes      int
	Blackjacks  int
	PlayerBusts int
	DealerBusts int

	Outcomes map[game.Outcome]int

	MaxCards int // Longest player hand seen
}

// Mean returns the arithmetic mean of all results in bets per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	units := result.Units
	s.Rounds++
	s.SumUnits += units
	s.SumUnits2 += units * units
	s.Values = append(s.Values, units)

	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}
	s.Outcomes[result.Outcome]++

	switch {
	case result.Outcome.IsWin():
		s.Wins++
	case result.Outcome.IsLoss():
		s.Losses++
	default:
		s.Pushes++
	}

	switch result.Outcome {
	case game.PlayerBlackjack:
		s.Blackjacks++
	case game.PlayerBust:
		s.PlayerBusts++
	case game.DealerBust:
		s.DealerBusts++
	}

	if result.Cards > s.MaxCards {
		s.MaxCards = result.Cards
	}
}

// Merge folds other into s. Values keep their order: s first, then other.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	if len(other.Outcomes) > 0 && s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}
	for outcome, n := range other.Outcomes {
		s.Outcomes[outcome] += n
	}
	s.MaxCards = max(s.MaxCards, other.MaxCards)
}

// WinRate returns the share of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate performs consistency checks on the accumulated data
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if total := s.Wins + s.Losses + s.Pushes; total != s.Rounds {
		return fmt.Errorf("wins+losses+pushes (%d) does not match rounds count (%d)", total, s.Rounds)
	}

	outcomes := 0
	for _, n := range s.Outcomes {
		outcomes += n
	}
	if outcomes != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds count (%d)", outcomes, s.Rounds)
	}

	return nil
}
