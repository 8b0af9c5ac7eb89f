package models

import (
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
)

// UserAttempt is a row of the externally managed user_attempts table.
// The service only reads it; starting and submitting attempts happens elsewhere.
type UserAttempt struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	UserID         string     `json:"user_id" gorm:"not null;size:255;index:idx_user_attempts_user_started,priority:1"`
	ExamID         string     `json:"exam_id" gorm:"not null;size:36;index"`
	IsCompleted    bool       `json:"is_completed" gorm:"default:false;index"`
	Score          *int       `json:"score"`
	CorrectAnswers *int       `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions" gorm:"not null"`
	TimeTaken      *int       `json:"time_taken"` // seconds
	StartedAt      time.Time  `json:"started_at" gorm:"not null;index:idx_user_attempts_user_started,priority:2"`
	CompletedAt    *time.Time `json:"completed_at"`

	// Relationships
	Exam *Exam `json:"exams,omitempty" gorm:"foreignKey:ExamID"`
}

func (UserAttempt) TableName() string {
	return "user_attempts"
}

// ToRaw converts the row into the shape consumed by the statistics validator.
func (a *UserAttempt) ToRaw() stats.RawAttempt {
	raw := stats.RawAttempt{
		ID:             a.ID,
		ExamID:         a.ExamID,
		IsCompleted:    a.IsCompleted,
		Score:          a.Score,
		CorrectAnswers: a.CorrectAnswers,
		TotalQuestions: a.TotalQuestions,
		TimeTaken:      a.TimeTaken,
		CompletedAt:    a.CompletedAt,
	}
	if a.Exam != nil {
		raw.Exam = &stats.ExamRef{Title: a.Exam.Title}
		if a.Exam.Description != nil {
			raw.Exam.Description = *a.Exam.Description
		}
	}
	return raw
}

// ToRawAttempts converts a list of rows, skipping nil entries.
func ToRawAttempts(attempts []*UserAttempt) []stats.RawAttempt {
	out := make([]stats.RawAttempt, 0, len(attempts))
	for _, a := range attempts {
		if a == nil {
			continue
		}
		out = append(out, a.ToRaw())
	}
	return out
}
