package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/cache"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	ttl          time.Duration
}

func NewAttemptPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, ttl time.Duration) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		ttl:          ttl,
	}
}

func (a *AttemptPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AttemptFilters) ([]*models.UserAttempt, error) {
	// Only the full history is cached; filtered reads always hit the database.
	if !filters.IsZero() || tx != nil {
		return a.listByUser(ctx, tx, userID, filters)
	}

	var attempts []*models.UserAttempt
	err := a.cacheManager.CacheOrExecute(ctx, cache.AttemptsKey(userID), &attempts, a.ttl, func() (interface{}, error) {
		return a.listByUser(ctx, nil, userID, filters)
	})
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) listByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AttemptFilters) ([]*models.UserAttempt, error) {
	db := a.getDB(tx)
	var attempts []*models.UserAttempt

	query := db.WithContext(ctx).Model(&models.UserAttempt{}).Where("user_id = ?", userID)
	query = a.applyFiltersAttempt(query, filters)

	if err := query.Preload("Exam").
		Order("started_at DESC").
		Order("id").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) LatestByExam(ctx context.Context, tx *gorm.DB, userID string) (map[string]*models.UserAttempt, error) {
	attempts, err := a.listByUser(ctx, tx, userID, repositories.AttemptFilters{})
	if err != nil {
		return nil, err
	}

	latest := make(map[string]*models.UserAttempt)
	for _, attempt := range attempts {
		// attempts are newest first, so the first one seen per exam wins
		if _, ok := latest[attempt.ExamID]; !ok {
			latest[attempt.ExamID] = attempt
		}
	}
	return latest, nil
}

func (a *AttemptPostgreSQL) InvalidateUser(ctx context.Context, userID string) {
	a.cacheManager.SafeDelete(ctx, cache.AttemptsKey(userID))
}

// applyFiltersAttempt applies the optional attempt filters to a query
func (a *AttemptPostgreSQL) applyFiltersAttempt(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.CompletedOnly {
		query = query.Where("is_completed = ?", true)
	}
	if filters.ExamID != nil {
		query = query.Where("exam_id = ?", *filters.ExamID)
	}
	if filters.StartedFrom != nil {
		query = query.Where("started_at >= ?", *filters.StartedFrom)
	}
	if filters.StartedTo != nil {
		query = query.Where("started_at < ?", *filters.StartedTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (a *AttemptPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}
