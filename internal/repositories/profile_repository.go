package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository stores the profile and settings of a user.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	// CreateIfMissing inserts profile unless the user already has one and
	// reports whether it was inserted. An existing row is never modified.
	CreateIfMissing(ctx context.Context, tx *gorm.DB, profile *models.Profile) (bool, error)
	UpdateSettings(ctx context.Context, tx *gorm.DB, userID string, settings models.UserSettings) error
}
