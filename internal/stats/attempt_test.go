package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func newAttempt(id string, score int, completed time.Time) Attempt {
	return Attempt{
		ID:             id,
		IsCompleted:    true,
		Score:          score,
		CorrectAnswers: score / 10,
		TotalQuestions: 10,
		TimeTaken:      600,
		CompletedAt:    ptrTime(completed),
	}
}

func decodeArray(t *testing.T, doc string) []any {
	t.Helper()
	var raw []any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestValidate_KeepsWellFormedRecords(t *testing.T) {
	raw := decodeArray(t, `[
		{"id": "a1", "exam_id": "e1", "exams": {"title": "Algebra"}, "is_completed": true,
		 "score": 85, "correct_answers": 17, "total_questions": 20, "time_taken": 900,
		 "completed_at": "2025-03-10T09:30:00Z"},
		{"id": "a2", "is_completed": true, "score": null, "correct_answers": null,
		 "total_questions": 5, "time_taken": null, "completed_at": null}
	]`)

	got := Validate(raw)
	require.Len(t, got, 2)

	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "e1", got[0].ExamID)
	assert.Equal(t, "Algebra", got[0].Exam.Title)
	assert.Equal(t, 85, got[0].Score)
	assert.Equal(t, 17, got[0].CorrectAnswers)
	assert.Equal(t, 900, got[0].TimeTaken)
	require.NotNil(t, got[0].CompletedAt)
	assert.True(t, got[0].CompletedAt.Equal(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)))

	assert.Equal(t, 0, got[1].Score)
	assert.Equal(t, 0, got[1].CorrectAnswers)
	assert.Equal(t, 0, got[1].TimeTaken)
	assert.Nil(t, got[1].CompletedAt)
	assert.Nil(t, got[1].Exam)
}

func TestValidate_DropsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `["a1"]`},
		{"missing id", `[{"is_completed": true, "total_questions": 10}]`},
		{"empty id", `[{"id": "", "is_completed": true, "total_questions": 10}]`},
		{"numeric id", `[{"id": 7, "is_completed": true, "total_questions": 10}]`},
		{"not completed", `[{"id": "a", "is_completed": false, "total_questions": 10}]`},
		{"completed as string", `[{"id": "a", "is_completed": "true", "total_questions": 10}]`},
		{"zero questions", `[{"id": "a", "is_completed": true, "total_questions": 0}]`},
		{"fractional questions", `[{"id": "a", "is_completed": true, "total_questions": 3.5}]`},
		{"missing questions", `[{"id": "a", "is_completed": true}]`},
		{"score above range", `[{"id": "a", "is_completed": true, "total_questions": 10, "score": 101}]`},
		{"negative score", `[{"id": "a", "is_completed": true, "total_questions": 10, "score": -1}]`},
		{"score as string", `[{"id": "a", "is_completed": true, "total_questions": 10, "score": "90"}]`},
		{"negative correct answers", `[{"id": "a", "is_completed": true, "total_questions": 10, "correct_answers": -2}]`},
		{"negative time", `[{"id": "a", "is_completed": true, "total_questions": 10, "time_taken": -5}]`},
		{"completed_at as number", `[{"id": "a", "is_completed": true, "total_questions": 10, "completed_at": 1700000000}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Validate(decodeArray(t, tt.doc)))
		})
	}
}

func TestValidate_UnparseableTimestampIsTreatedAsAbsent(t *testing.T) {
	raw := decodeArray(t, `[{"id": "a", "is_completed": true, "total_questions": 4, "score": 50, "completed_at": "yesterday"}]`)

	got := Validate(raw)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].CompletedAt)
	assert.Equal(t, 50, got[0].Score)
}

func TestValidate_IsIdempotent(t *testing.T) {
	raw := decodeArray(t, `[
		{"id": "a1", "exam_id": "e1", "exams": {"title": "Physics"}, "is_completed": true,
		 "score": 72, "correct_answers": 18, "total_questions": 25, "time_taken": 1500,
		 "completed_at": "2025-02-01T08:00:00Z"},
		{"id": "a2", "is_completed": true, "total_questions": 3},
		{"id": "a3", "is_completed": false, "total_questions": 3}
	]`)

	first := Validate(raw)
	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := ValidateJSON(encoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateJSON_RejectsNonArray(t *testing.T) {
	_, err := ValidateJSON([]byte(`{"id": "a1"}`))
	assert.Error(t, err)

	got, err := ValidateJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateRecords(t *testing.T) {
	score := 88
	records := []RawAttempt{
		{ID: "a1", IsCompleted: true, TotalQuestions: 10, Score: &score},
		{ID: "a2", IsCompleted: true, TotalQuestions: -1},
		{ID: "", IsCompleted: true, TotalQuestions: 10},
	}

	got := ValidateRecords(records)
	require.Len(t, got, 1)
	assert.Equal(t, 88, got[0].Score)

	// The normalised copy must not alias the caller's pointers.
	score = 10
	assert.Equal(t, 88, got[0].Score)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-10T09:30:00Z", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), true},
		{"2025-03-10T09:30:00.123456+00:00", time.Date(2025, 3, 10, 9, 30, 0, 123456000, time.UTC), true},
		{"2025-03-10 09:30:00+03:00", time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC), true},
		{"2025-03-10T09:30:00", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), true},
		{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"10/03/2025", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestAttemptTitleAndMinutes(t *testing.T) {
	a := Attempt{TimeTaken: 179}
	assert.Equal(t, 2, a.Minutes())
	assert.Equal(t, "امتحان", a.Title(Arabic))
	assert.Equal(t, "Exam", a.Title(English))

	a.Exam = &ExamRef{Title: "Chemistry"}
	assert.Equal(t, "Chemistry", a.Title(Arabic))
}
