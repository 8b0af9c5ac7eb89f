package stats

import "time"

const weeklyWindows = 7

const week = 7 * 24 * time.Hour

// WeekPoint summarises the attempts completed in one trailing week window.
type WeekPoint struct {
	Week  string    `json:"week"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count int       `json:"count"`
	Score float64   `json:"score"`
}

// BuildWeeklySeries returns exactly seven trailing week windows ending at now,
// oldest first. Window i covers [now-(i+1)*7d, now-i*7d). Score is the mean
// score inside the window, zero when it is empty.
func BuildWeeklySeries(attempts []Attempt, now time.Time, locale Locale, loc *time.Location) []WeekPoint {
	loc = locationOrUTC(loc)

	points := make([]WeekPoint, 0, weeklyWindows)
	for i := weeklyWindows - 1; i >= 0; i-- {
		end := now.Add(-time.Duration(i) * week)
		start := end.Add(-week)

		count, sum := 0, 0
		for _, a := range attempts {
			if a.CompletedAt == nil {
				continue
			}
			t := *a.CompletedAt
			if t.Before(start) || !t.Before(end) {
				continue
			}
			count++
			sum += a.Score
		}

		var avg float64
		if count > 0 {
			avg = float64(sum) / float64(count)
		}
		points = append(points, WeekPoint{
			Week:  start.In(loc).Format(locale.DateLabelLayout),
			Start: start,
			End:   end,
			Count: count,
			Score: avg,
		})
	}
	return points
}
