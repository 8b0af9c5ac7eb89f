package stats

import (
	"time"
)

// Metric selects the value plotted on the trend chart.
type Metric string

const (
	MetricScore      Metric = "score"
	MetricTime       Metric = "time"
	MetricCompletion Metric = "completion"
)

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricScore, MetricTime, MetricCompletion:
		return true
	}
	return false
}

// ChartType is the rendering hint passed through to the charting widget.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartArea ChartType = "area"
	ChartBar  ChartType = "bar"
)

// Valid reports whether c is a known chart type.
func (c ChartType) Valid() bool {
	switch c {
	case ChartLine, ChartArea, ChartBar:
		return true
	}
	return false
}

// ChartPoint is one attempt on the score-over-time chart.
type ChartPoint struct {
	Index          int       `json:"index"`
	Date           string    `json:"date"`
	CompletedAt    time.Time `json:"completed_at"`
	Score          int       `json:"score"`
	Time           int       `json:"time"` // minutes
	ExamTitle      string    `json:"exam_title"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
}

// BuildChartSeries maps every attempt with a completion time to a chart point,
// oldest first, with a 1-based index. Date labels are rendered in loc.
func BuildChartSeries(attempts []Attempt, locale Locale, loc *time.Location) []ChartPoint {
	loc = locationOrUTC(loc)

	points := make([]ChartPoint, 0, len(attempts))
	for _, a := range ByCompletion(attempts) {
		if a.CompletedAt == nil {
			continue
		}
		completed := a.CompletedAt.In(loc)
		points = append(points, ChartPoint{
			Index:          len(points) + 1,
			Date:           completed.Format(locale.DateLabelLayout),
			CompletedAt:    completed,
			Score:          a.Score,
			Time:           a.Minutes(),
			ExamTitle:      a.Title(locale),
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
		})
	}
	return points
}

// MetricPoint is a single value of the selected metric.
type MetricPoint struct {
	Index int     `json:"index"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MetricSeries projects the chart series onto one metric. Completion is the
// share of correct answers in percent.
func MetricSeries(points []ChartPoint, metric Metric) []MetricPoint {
	out := make([]MetricPoint, 0, len(points))
	for _, p := range points {
		var v float64
		switch metric {
		case MetricTime:
			v = float64(p.Time)
		case MetricCompletion:
			if p.TotalQuestions > 0 {
				v = float64(p.CorrectAnswers) / float64(p.TotalQuestions) * 100
			}
		default:
			v = float64(p.Score)
		}
		out = append(out, MetricPoint{Index: p.Index, Date: p.Date, Value: v})
	}
	return out
}

func locationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
