package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"gorm.io/gorm"
)

// gorm rewrites ? placeholders for the active dialect.
var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) CountActiveExams(ctx context.Context, tx *gorm.DB) (int64, error) {
	query := sqlBuilder.Select("COUNT(*)").
		From("exams").
		Where(squirrel.Eq{"is_active": true})

	var count int64
	if err := d.scalar(ctx, tx, query, &count); err != nil {
		return 0, fmt.Errorf("failed to count active exams: %w", err)
	}
	return count, nil
}

func (d *DashboardPostgreSQL) SumActiveExamQuestions(ctx context.Context, tx *gorm.DB) (int64, error) {
	query := sqlBuilder.Select("COALESCE(SUM(total_questions), 0)").
		From("exams").
		Where(squirrel.Eq{"is_active": true})

	var total int64
	if err := d.scalar(ctx, tx, query, &total); err != nil {
		return 0, fmt.Errorf("failed to sum exam questions: %w", err)
	}
	return total, nil
}

func (d *DashboardPostgreSQL) CountCompletedAttempts(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	query := sqlBuilder.Select("COUNT(*)").
		From("user_attempts").
		Where(squirrel.Eq{"user_id": userID, "is_completed": true})

	var count int64
	if err := d.scalar(ctx, tx, query, &count); err != nil {
		return 0, fmt.Errorf("failed to count completed attempts: %w", err)
	}
	return count, nil
}

// AverageCompletedScore averages the scores of every completed attempt. A
// missing score counts as 0, the same as in the statistics summary.
func (d *DashboardPostgreSQL) AverageCompletedScore(ctx context.Context, tx *gorm.DB, userID string) (float64, error) {
	query := sqlBuilder.Select("COALESCE(AVG(COALESCE(score, 0)), 0)").
		From("user_attempts").
		Where(squirrel.Eq{"user_id": userID, "is_completed": true})

	var avg float64
	if err := d.scalar(ctx, tx, query, &avg); err != nil {
		return 0, fmt.Errorf("failed to average scores: %w", err)
	}
	return avg, nil
}

// scalar runs a single-value query built with squirrel through gorm.
func (d *DashboardPostgreSQL) scalar(ctx context.Context, tx *gorm.DB, query squirrel.SelectBuilder, dest interface{}) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return d.getDB(tx).WithContext(ctx).Raw(sql, args...).Row().Scan(dest)
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}
