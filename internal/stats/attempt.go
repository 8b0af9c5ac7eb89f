package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ExamRef is the exam metadata joined onto an attempt by the attempt store.
type ExamRef struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// RawAttempt is an attempt as delivered by the attempt store, before validation.
// Optional numeric fields are pointers so a degraded upstream can leave them null.
type RawAttempt struct {
	ID             string     `json:"id"`
	ExamID         string     `json:"exam_id"`
	Exam           *ExamRef   `json:"exams,omitempty"`
	IsCompleted    bool       `json:"is_completed"`
	Score          *int       `json:"score"`
	CorrectAnswers *int       `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      *int       `json:"time_taken"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// Attempt is a validated, normalised attempt. Score, correct answers and time
// taken default to zero; CompletedAt stays nil when the store never set it.
type Attempt struct {
	ID             string     `json:"id"`
	ExamID         string     `json:"exam_id,omitempty"`
	Exam           *ExamRef   `json:"exams,omitempty"`
	IsCompleted    bool       `json:"is_completed"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      int        `json:"time_taken"` // seconds
	CompletedAt    *time.Time `json:"completed_at"`
}

// Title returns the exam title, falling back to the locale's generic label.
func (a Attempt) Title(locale Locale) string {
	if a.Exam != nil && strings.TrimSpace(a.Exam.Title) != "" {
		return a.Exam.Title
	}
	return locale.DefaultExamTitle
}

// Minutes returns the elapsed time in whole minutes.
func (a Attempt) Minutes() int {
	return a.TimeTaken / 60
}

// ===== VALIDATION =====

// Validate keeps the records of raw that are well-formed completed attempts.
// raw is typically the result of decoding a JSON array into []any; anything
// that is not an object or carries a wrong-typed field is dropped.
func Validate(raw []any) []Attempt {
	records := make([]RawAttempt, 0, len(raw))
	for _, item := range raw {
		rec, ok := decodeRawAttempt(item)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return ValidateRecords(records)
}

// ValidateJSON decodes a JSON array of attempts and validates it. It only
// fails when data is not a JSON array; malformed elements are dropped.
func ValidateJSON(data []byte) ([]Attempt, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	return Validate(raw), nil
}

// ValidateRecords applies the completion and range rules to typed records.
func ValidateRecords(records []RawAttempt) []Attempt {
	out := make([]Attempt, 0, len(records))
	for _, rec := range records {
		a, ok := normalize(rec)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

func normalize(rec RawAttempt) (Attempt, bool) {
	if rec.ID == "" || !rec.IsCompleted || rec.TotalQuestions <= 0 {
		return Attempt{}, false
	}
	if rec.Score != nil && (*rec.Score < 0 || *rec.Score > 100) {
		return Attempt{}, false
	}
	if rec.CorrectAnswers != nil && *rec.CorrectAnswers < 0 {
		return Attempt{}, false
	}
	if rec.TimeTaken != nil && *rec.TimeTaken < 0 {
		return Attempt{}, false
	}

	a := Attempt{
		ID:             rec.ID,
		ExamID:         rec.ExamID,
		IsCompleted:    true,
		Score:          derefInt(rec.Score),
		CorrectAnswers: derefInt(rec.CorrectAnswers),
		TotalQuestions: rec.TotalQuestions,
		TimeTaken:      derefInt(rec.TimeTaken),
	}
	if rec.Exam != nil {
		exam := *rec.Exam
		a.Exam = &exam
	}
	if rec.CompletedAt != nil && !rec.CompletedAt.IsZero() {
		t := *rec.CompletedAt
		a.CompletedAt = &t
	}
	return a, true
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// decodeRawAttempt converts a generic decoded value into a RawAttempt,
// rejecting values whose fields have the wrong type.
func decodeRawAttempt(item any) (RawAttempt, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return RawAttempt{}, false
	}

	var rec RawAttempt

	id, ok := m["id"].(string)
	if !ok {
		return RawAttempt{}, false
	}
	rec.ID = id

	completed, ok := m["is_completed"].(bool)
	if !ok {
		return RawAttempt{}, false
	}
	rec.IsCompleted = completed

	total, ok := asInt(m["total_questions"])
	if !ok {
		return RawAttempt{}, false
	}
	rec.TotalQuestions = total

	if rec.Score, ok = optionalInt(m, "score"); !ok {
		return RawAttempt{}, false
	}
	if rec.CorrectAnswers, ok = optionalInt(m, "correct_answers"); !ok {
		return RawAttempt{}, false
	}
	if rec.TimeTaken, ok = optionalInt(m, "time_taken"); !ok {
		return RawAttempt{}, false
	}

	switch v := m["completed_at"].(type) {
	case nil:
	case string:
		// Unparseable timestamps are treated as absent; the record still counts
		// towards date-independent statistics.
		if t, ok := ParseTimestamp(v); ok {
			rec.CompletedAt = &t
		}
	case time.Time:
		rec.CompletedAt = &v
	default:
		return RawAttempt{}, false
	}

	if examID, ok := m["exam_id"].(string); ok {
		rec.ExamID = examID
	}
	if exam, ok := m["exams"].(map[string]any); ok {
		ref := &ExamRef{}
		ref.Title, _ = exam["title"].(string)
		ref.Description, _ = exam["description"].(string)
		rec.Exam = ref
	}

	return rec, true
}

// optionalInt reads key from m. A missing or null value yields (nil, true);
// a present value of the wrong type yields ok == false.
func optionalInt(m map[string]any, key string) (*int, bool) {
	v, present := m[key]
	if !present || v == nil {
		return nil, true
	}
	n, ok := asInt(v)
	if !ok {
		return nil, false
	}
	return &n, true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats emitted by the attempt store.
// Timestamps without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
