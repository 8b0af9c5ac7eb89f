package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository reads the user_attempts table. Attempts are written by
// the exam runner, so the service has no write operations here.
type AttemptRepository interface {
	// ListByUser returns the user's attempts newest first (by started_at)
	// with the exam preloaded. The unfiltered list is served from cache.
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters AttemptFilters) ([]*models.UserAttempt, error)

	// LatestByExam returns the most recently started attempt per exam id.
	LatestByExam(ctx context.Context, tx *gorm.DB, userID string) (map[string]*models.UserAttempt, error)

	// InvalidateUser drops the cached attempt snapshot of the user.
	InvalidateUser(ctx context.Context, userID string)
}
