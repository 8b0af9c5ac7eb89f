package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/exam-prep-service/internal/config"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// MigrateOwnedTables creates the tables owned by this service. Attempts and
// exams belong to the exam runner and are never migrated here.
func MigrateOwnedTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		return fmt.Errorf("failed to migrate profiles: %w", err)
	}
	return nil
}
