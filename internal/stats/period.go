package stats

import (
	"slices"
	"time"
)

// Period selects the time window used before aggregation.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
	PeriodCustom  Period = "custom"
)

var periodDays = map[Period]int{
	PeriodWeek:    7,
	PeriodMonth:   30,
	PeriodQuarter: 90,
	PeriodYear:    365,
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll, PeriodCustom:
		return true
	}
	return false
}

// Days returns the length of a named rolling period.
func (p Period) Days() (int, bool) {
	d, ok := periodDays[p]
	return d, ok
}

// DateRange is the user-picked window for PeriodCustom. Both bounds are inclusive.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Complete reports whether both bounds are set and ordered.
func (r *DateRange) Complete() bool {
	return r != nil && r.Start != nil && r.End != nil && !r.End.Before(*r.Start)
}

// Contains reports whether t falls inside a complete range.
func (r *DateRange) Contains(t time.Time) bool {
	if !r.Complete() {
		return false
	}
	return !t.Before(*r.Start) && !t.After(*r.End)
}

// FilterByPeriod keeps the attempts that were completed inside period.
//
// PeriodAll returns a copy of the input. Rolling periods keep attempts whose
// completion time is strictly after now minus the period length. PeriodCustom
// without a complete range yields no attempts. Attempts without a completion
// time only survive PeriodAll. Unknown periods behave like PeriodAll.
func FilterByPeriod(attempts []Attempt, period Period, custom *DateRange, now time.Time) []Attempt {
	switch period {
	case PeriodCustom:
		if !custom.Complete() {
			return []Attempt{}
		}
		return filterAttempts(attempts, func(t time.Time) bool {
			return custom.Contains(t)
		})
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		days, _ := period.Days()
		cutoff := now.AddDate(0, 0, -days)
		return filterAttempts(attempts, func(t time.Time) bool {
			return t.After(cutoff)
		})
	default:
		return slices.Clone(attempts)
	}
}

func filterAttempts(attempts []Attempt, keep func(time.Time) bool) []Attempt {
	out := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.CompletedAt == nil || !keep(*a.CompletedAt) {
			continue
		}
		out = append(out, a)
	}
	return out
}
