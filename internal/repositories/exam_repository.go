package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"gorm.io/gorm"
)

// ExamRepository reads the exam catalog.
type ExamRepository interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Exam, error)
}
