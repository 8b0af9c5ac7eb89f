package stats

import (
	"cmp"
	"slices"
	"time"
)

// SortOrder orders the detailed attempt list.
type SortOrder string

const (
	SortDateDesc  SortOrder = "date_desc"
	SortDateAsc   SortOrder = "date_asc"
	SortScoreDesc SortOrder = "score_desc"
	SortScoreAsc  SortOrder = "score_asc"
)

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	switch s {
	case SortDateDesc, SortDateAsc, SortScoreDesc, SortScoreAsc:
		return true
	}
	return false
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ViewConfig is the immutable set of view choices a report is built for.
type ViewConfig struct {
	Period    Period
	Custom    *DateRange
	Metric    Metric
	ChartType ChartType
	Sort      SortOrder
	Page      int
	PageSize  int
	Locale    Locale
	Location  *time.Location
}

// DefaultViewConfig returns the configuration used when the caller picks nothing.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Period:    PeriodMonth,
		Metric:    MetricScore,
		ChartType: ChartLine,
		Sort:      SortDateDesc,
		Page:      1,
		PageSize:  DefaultPageSize,
		Locale:    Arabic,
		Location:  time.UTC,
	}
}

// Normalize replaces unknown or out-of-range values with their defaults.
func (v ViewConfig) Normalize() ViewConfig {
	def := DefaultViewConfig()
	if !v.Period.Valid() {
		v.Period = def.Period
	}
	if !v.Metric.Valid() {
		v.Metric = def.Metric
	}
	if !v.ChartType.Valid() {
		v.ChartType = def.ChartType
	}
	if !v.Sort.Valid() {
		v.Sort = def.Sort
	}
	if v.Page < 1 {
		v.Page = 1
	}
	switch {
	case v.PageSize < 1:
		v.PageSize = def.PageSize
	case v.PageSize > MaxPageSize:
		v.PageSize = MaxPageSize
	}
	if v.Locale.Code == "" {
		v.Locale = def.Locale
	}
	v.Location = locationOrUTC(v.Location)
	return v
}

// SortAttempts returns a sorted copy of attempts. Date orders fall back to
// ByRecency / ByCompletion; score orders break ties on recency.
func SortAttempts(attempts []Attempt, order SortOrder) []Attempt {
	switch order {
	case SortDateAsc:
		return ByCompletion(attempts)
	case SortScoreDesc, SortScoreAsc:
		ordered := ByRecency(attempts)
		slices.SortStableFunc(ordered, func(a, b Attempt) int {
			if order == SortScoreAsc {
				return cmp.Compare(a.Score, b.Score)
			}
			return cmp.Compare(b.Score, a.Score)
		})
		return ordered
	default:
		return ByRecency(attempts)
	}
}

// Page is one page of the detailed attempt list.
type Page struct {
	Items      []Attempt `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// Paginate slices attempts into the requested 1-based page. Pages past the
// end are empty.
func Paginate(attempts []Attempt, page, size int) Page {
	page = max(page, 1)
	if size < 1 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	total := len(attempts)
	p := Page{
		Items:      []Attempt{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	// Compare pages before multiplying so huge page numbers cannot overflow.
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, total)
	p.Items = slices.Clone(attempts[start:end])
	return p
}

// Report is everything the statistics view renders for one ViewConfig.
type Report struct {
	Period       Period              `json:"period"`
	Metric       Metric              `json:"metric"`
	ChartType    ChartType           `json:"chart_type"`
	Summary      Summary             `json:"summary"`
	Distribution []DistributionSlice `json:"distribution"`
	Chart        []ChartPoint        `json:"chart"`
	MetricSeries []MetricPoint       `json:"metric_series"`
	Weekly       []WeekPoint         `json:"weekly"`
	Attempts     Page                `json:"attempts"`
	Level        Level               `json:"level"`
	Rank         Rank                `json:"rank"`
}

// BuildReport filters attempts by the view's period and derives every view
// block from the result.
func BuildReport(attempts []Attempt, view ViewConfig, now time.Time) Report {
	view = view.Normalize()

	filtered := FilterByPeriod(attempts, view.Period, view.Custom, now)
	summary := ComputeSummary(filtered)
	chart := BuildChartSeries(filtered, view.Locale, view.Location)

	return Report{
		Period:       view.Period,
		Metric:       view.Metric,
		ChartType:    view.ChartType,
		Summary:      summary,
		Distribution: BuildDistribution(summary, view.Locale),
		Chart:        chart,
		MetricSeries: MetricSeries(chart, view.Metric),
		Weekly:       BuildWeeklySeries(filtered, now, view.Locale, view.Location),
		Attempts:     Paginate(SortAttempts(filtered, view.Sort), view.Page, view.PageSize),
		Level:        LevelFor(summary.AverageScore, view.Locale),
		Rank:         RankFor(summary.AverageScore, view.Locale),
	}
}
