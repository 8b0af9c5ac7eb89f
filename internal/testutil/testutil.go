package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with every model migrated.
// The pool is pinned to one connection because each new :memory: connection
// would otherwise open an empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Exam{}, &models.UserAttempt{}, &models.Profile{}))

	t.Cleanup(func() {
		MustClose(t, sqlDB)
	})
	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
