package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := p.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts the profile or overwrites every column of the existing row.
func (p *ProfilePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "phone", "location", "bio", "settings", "updated_at"}),
		}).
		Create(profile).Error; err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) CreateIfMissing(ctx context.Context, tx *gorm.DB, profile *models.Profile) (bool, error) {
	result := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(profile)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create profile: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (p *ProfilePostgreSQL) UpdateSettings(ctx context.Context, tx *gorm.DB, userID string, settings models.UserSettings) error {
	result := p.getDB(tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("settings", datatypes.NewJSONType(settings))
	if result.Error != nil {
		return fmt.Errorf("failed to update settings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}
