package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/cache"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db        *gorm.DB
	attempt   repositories.AttemptRepository
	exam      repositories.ExamRepository
	profile   repositories.ProfileRepository
	dashboard repositories.DashboardRepository
}

// NewRepository wires every gorm repository on db. The attempt snapshot is
// cached through cacheManager for attemptsTTL.
func NewRepository(db *gorm.DB, cacheManager *cache.CacheManager, attemptsTTL time.Duration) repositories.Repository {
	return &repository{
		db:        db,
		attempt:   NewAttemptPostgreSQL(db, cacheManager, attemptsTTL),
		exam:      NewExamPostgreSQL(db),
		profile:   NewProfilePostgreSQL(db),
		dashboard: NewDashboardPostgreSQL(db),
	}
}

func (r *repository) Attempt() repositories.AttemptRepository     { return r.attempt }
func (r *repository) Exam() repositories.ExamRepository           { return r.exam }
func (r *repository) Profile() repositories.ProfileRepository     { return r.profile }
func (r *repository) Dashboard() repositories.DashboardRepository { return r.dashboard }

func (r *repository) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
