package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	CompletedOnly bool       `json:"completed_only"`
	ExamID        *string    `json:"exam_id"`
	StartedFrom   *time.Time `json:"started_from"`
	StartedTo     *time.Time `json:"started_to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
}

// IsZero reports whether no filter is set, i.e. the full history is requested.
func (f AttemptFilters) IsZero() bool {
	return !f.CompletedOnly && f.ExamID == nil && f.StartedFrom == nil && f.StartedTo == nil &&
		f.Limit == 0 && f.Offset == 0
}

// ===== AGGREGATE =====

// Repository groups the repositories sharing one database handle.
type Repository interface {
	Attempt() AttemptRepository
	Exam() ExamRepository
	Profile() ProfileRepository
	Dashboard() DashboardRepository

	// WithTx runs fn inside a database transaction.
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
