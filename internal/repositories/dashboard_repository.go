package repositories

import (
	"context"

	"gorm.io/gorm"
)

// DashboardRepository computes the aggregates of the home dashboard in SQL.
type DashboardRepository interface {
	CountActiveExams(ctx context.Context, tx *gorm.DB) (int64, error)
	SumActiveExamQuestions(ctx context.Context, tx *gorm.DB) (int64, error)
	CountCompletedAttempts(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	AverageCompletedScore(ctx context.Context, tx *gorm.DB, userID string) (float64, error)
}
