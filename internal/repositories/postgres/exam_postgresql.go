package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

// ListActive returns the active exams ordered by creation date
func (e *ExamPostgreSQL) ListActive(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.getDB(tx).WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list active exams: %w", err)
	}
	return exams, nil
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Exam, error) {
	var exam models.Exam
	if err := e.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}
