package stats

import (
	"cmp"
	"slices"
)

// Band is one of the four score ranges used for distribution reporting.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

const (
	excellentThreshold = 90
	goodThreshold      = 70
	fairThreshold      = 60

	// trendWindow is the number of attempts in each half of the improvement trend.
	trendWindow = 5
)

// BandFor classifies a score. Lower bounds are inclusive.
func BandFor(score int) Band {
	switch {
	case score >= excellentThreshold:
		return BandExcellent
	case score >= goodThreshold:
		return BandGood
	case score >= fairThreshold:
		return BandFair
	default:
		return BandPoor
	}
}

// Summary is the headline statistics block for a set of attempts.
type Summary struct {
	TotalAttempts    int     `json:"total_attempts"`
	AverageScore     float64 `json:"average_score"`
	HighestScore     int     `json:"highest_score"`
	LowestScore      int     `json:"lowest_score"`
	TotalTime        int     `json:"total_time"`   // seconds
	AverageTime      int     `json:"average_time"` // whole minutes
	ExcellentScores  int     `json:"excellent_scores"`
	GoodScores       int     `json:"good_scores"`
	FairScores       int     `json:"fair_scores"`
	PoorScores       int     `json:"poor_scores"`
	SuccessRate      float64 `json:"success_rate"`
	ImprovementTrend float64 `json:"improvement_trend"`
}

// BandCount returns the number of attempts in band b.
func (s Summary) BandCount(b Band) int {
	switch b {
	case BandExcellent:
		return s.ExcellentScores
	case BandGood:
		return s.GoodScores
	case BandFair:
		return s.FairScores
	case BandPoor:
		return s.PoorScores
	}
	return 0
}

// ComputeSummary aggregates attempts into a Summary. An empty input yields
// the zero Summary.
func ComputeSummary(attempts []Attempt) Summary {
	if len(attempts) == 0 {
		return Summary{}
	}

	s := Summary{
		TotalAttempts: len(attempts),
		HighestScore:  attempts[0].Score,
		LowestScore:   attempts[0].Score,
	}

	scoreSum := 0
	passed := 0
	for _, a := range attempts {
		scoreSum += a.Score
		s.HighestScore = max(s.HighestScore, a.Score)
		s.LowestScore = min(s.LowestScore, a.Score)
		s.TotalTime += a.TimeTaken

		switch BandFor(a.Score) {
		case BandExcellent:
			s.ExcellentScores++
		case BandGood:
			s.GoodScores++
		case BandFair:
			s.FairScores++
		default:
			s.PoorScores++
		}
		if a.Score >= goodThreshold {
			passed++
		}
	}

	n := float64(len(attempts))
	s.AverageScore = float64(scoreSum) / n
	s.AverageTime = s.TotalTime / len(attempts) / 60
	s.SuccessRate = float64(passed) / n * 100
	s.ImprovementTrend = improvementTrend(attempts)

	return s
}

// improvementTrend compares the newest trendWindow attempts with the
// trendWindow attempts before them.
func improvementTrend(attempts []Attempt) float64 {
	ordered := ByRecency(attempts)

	recentEnd := min(trendWindow, len(ordered))
	olderEnd := min(recentEnd+trendWindow, len(ordered))

	return averageScore(ordered[:recentEnd]) - averageScore(ordered[recentEnd:olderEnd])
}

func averageScore(attempts []Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	sum := 0
	for _, a := range attempts {
		sum += a.Score
	}
	return float64(sum) / float64(len(attempts))
}

// ByRecency returns a copy of attempts ordered most recently completed first.
// Attempts without a completion time sort last; ties break on id.
func ByRecency(attempts []Attempt) []Attempt {
	ordered := slices.Clone(attempts)
	slices.SortStableFunc(ordered, func(a, b Attempt) int {
		if c := compareCompletedAt(b, a); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ordered
}

// ByCompletion returns a copy of attempts in ascending completion order.
// Attempts without a completion time sort first; ties break on id.
func ByCompletion(attempts []Attempt) []Attempt {
	ordered := slices.Clone(attempts)
	slices.SortStableFunc(ordered, func(a, b Attempt) int {
		if c := compareCompletedAt(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ordered
}

// compareCompletedAt orders a missing completion time before any real one.
func compareCompletedAt(a, b Attempt) int {
	switch {
	case a.CompletedAt == nil && b.CompletedAt == nil:
		return 0
	case a.CompletedAt == nil:
		return -1
	case b.CompletedAt == nil:
		return 1
	}
	return a.CompletedAt.Compare(*b.CompletedAt)
}
