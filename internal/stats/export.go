package stats

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ExportFormat is the file format of an export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return true
	}
	return false
}

// ContentType returns the MIME type served for f.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

const (
	exportFilePrefix = "exam-statistics-"
	filenameDate     = "2006-01-02"
	utf8BOM          = "\uFEFF"
)

// ErrUnsupportedFormat is returned for export formats other than csv, json and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// EmptyExportError reports an export request with nothing to export.
type EmptyExportError struct {
	Format ExportFormat
}

func (e *EmptyExportError) Error() string {
	return fmt.Sprintf("nothing to export as %s: no attempts match the selected filters", e.Format)
}

// IsEmptyExport reports whether err is or wraps an EmptyExportError.
func IsEmptyExport(err error) bool {
	var target *EmptyExportError
	return errors.As(err, &target)
}

// ExportOptions controls Export. Period and Custom are recorded in the
// metadata only; callers filter before exporting.
type ExportOptions struct {
	Format   ExportFormat
	Period   Period
	Custom   *DateRange
	Locale   Locale
	Location *time.Location
	Now      time.Time
}

// ExportFile is a rendered export ready to be served or written to disk.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Records     int
}

// ExportRow is one attempt in the structured export.
type ExportRow struct {
	ID             string     `json:"id"`
	ExamID         string     `json:"exam_id,omitempty"`
	ExamTitle      string     `json:"exam_title"`
	CompletedAt    *time.Time `json:"completed_at"`
	Date           string     `json:"date"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      int        `json:"time_taken"`
	TimeMinutes    int        `json:"time_minutes"`
}

// Attempt converts the row back into a normalised attempt.
func (r ExportRow) Attempt() Attempt {
	return Attempt{
		ID:             r.ID,
		ExamID:         r.ExamID,
		Exam:           &ExamRef{Title: r.ExamTitle},
		IsCompleted:    true,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		TimeTaken:      r.TimeTaken,
		CompletedAt:    r.CompletedAt,
	}
}

// ExportMetadata describes when and how an export was produced.
type ExportMetadata struct {
	ExportedAt  time.Time  `json:"exported_at"`
	RecordCount int        `json:"record_count"`
	Period      Period     `json:"period"`
	Filters     *DateRange `json:"filters,omitempty"`
	Locale      string     `json:"locale"`
}

// StructuredExport is the document written by the json format.
type StructuredExport struct {
	Metadata   ExportMetadata `json:"metadata"`
	Statistics Summary        `json:"statistics"`
	Data       []ExportRow    `json:"data"`
}

// Attempts returns the data rows as attempts.
func (e StructuredExport) Attempts() []Attempt {
	out := make([]Attempt, 0, len(e.Data))
	for _, r := range e.Data {
		out = append(out, r.Attempt())
	}
	return out
}

// Export renders attempts in the requested format. Rows keep the input order.
func Export(attempts []Attempt, opts ExportOptions) (*ExportFile, error) {
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
	if len(attempts) == 0 {
		return nil, &EmptyExportError{Format: opts.Format}
	}

	opts = opts.withDefaults()

	var (
		content []byte
		err     error
	)
	switch opts.Format {
	case FormatCSV:
		content, err = exportCSV(attempts, opts)
	case FormatJSON:
		content, err = exportJSON(attempts, opts)
	case FormatXLSX:
		content, err = exportXLSX(attempts, opts)
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    ExportFilename(opts.Format, opts.Now.In(opts.Location)),
		ContentType: opts.Format.ContentType(),
		Content:     content,
		Records:     len(attempts),
	}, nil
}

// ExportFilename returns exam-statistics-<yyyy-MM-dd>.<ext> for the date of now.
func ExportFilename(format ExportFormat, now time.Time) string {
	return exportFilePrefix + now.Format(filenameDate) + "." + string(format)
}

func (o ExportOptions) withDefaults() ExportOptions {
	if o.Locale.Code == "" {
		o.Locale = Arabic
	}
	o.Location = locationOrUTC(o.Location)
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Period == "" {
		o.Period = PeriodAll
	}
	return o
}

// tableRow renders the localised tabular columns of an attempt.
func tableRow(a Attempt, opts ExportOptions) []string {
	date := ""
	if a.CompletedAt != nil {
		date = a.CompletedAt.In(opts.Location).Format(opts.Locale.ExportDateLayout)
	}
	return []string{
		date,
		a.Title(opts.Locale),
		strconv.Itoa(a.Score),
		strconv.Itoa(a.CorrectAnswers),
		strconv.Itoa(a.TotalQuestions),
		strconv.Itoa(a.Minutes()),
	}
}

func exportCSV(attempts []Attempt, opts ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	writer := csv.NewWriter(&buf)
	if err := writer.Write(opts.Locale.CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, a := range attempts {
		if err := writer.Write(tableRow(a, opts)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildStructuredExport assembles the json export document.
func BuildStructuredExport(attempts []Attempt, opts ExportOptions) StructuredExport {
	opts = opts.withDefaults()

	rows := make([]ExportRow, 0, len(attempts))
	for _, a := range attempts {
		row := ExportRow{
			ID:             a.ID,
			ExamID:         a.ExamID,
			ExamTitle:      a.Title(opts.Locale),
			CompletedAt:    a.CompletedAt,
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			TimeTaken:      a.TimeTaken,
			TimeMinutes:    a.Minutes(),
		}
		if a.CompletedAt != nil {
			row.Date = a.CompletedAt.In(opts.Location).Format(opts.Locale.ExportDateLayout)
		}
		rows = append(rows, row)
	}

	var filters *DateRange
	if opts.Period == PeriodCustom {
		filters = opts.Custom
	}

	return StructuredExport{
		Metadata: ExportMetadata{
			ExportedAt:  opts.Now.UTC(),
			RecordCount: len(rows),
			Period:      opts.Period,
			Filters:     filters,
			Locale:      opts.Locale.Code,
		},
		Statistics: ComputeSummary(attempts),
		Data:       rows,
	}
}

func exportJSON(attempts []Attempt, opts ExportOptions) ([]byte, error) {
	doc := BuildStructuredExport(attempts, opts)
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return content, nil
}
