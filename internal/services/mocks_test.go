package services

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.AttemptFilters) ([]*models.UserAttempt, error) {
	args := m.Called(ctx, tx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAttempt), args.Error(1)
}

func (m *MockAttemptRepository) LatestByExam(ctx context.Context, tx *gorm.DB, userID string) (map[string]*models.UserAttempt, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.UserAttempt), args.Error(1)
}

func (m *MockAttemptRepository) InvalidateUser(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

// MockExamRepository is a mock implementation of ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) ListActive(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Exam, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	args := m.Called(ctx, tx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) CreateIfMissing(ctx context.Context, tx *gorm.DB, profile *models.Profile) (bool, error) {
	args := m.Called(ctx, tx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) UpdateSettings(ctx context.Context, tx *gorm.DB, userID string, settings models.UserSettings) error {
	args := m.Called(ctx, tx, userID, settings)
	return args.Error(0)
}

// MockDashboardRepository is a mock implementation of DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountActiveExams(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) SumActiveExamQuestions(ctx context.Context, tx *gorm.DB) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountCompletedAttempts(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) AverageCompletedScore(ctx context.Context, tx *gorm.DB, userID string) (float64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(float64), args.Error(1)
}

// MockRepository bundles the repository mocks. WithTx runs fn with a nil
// transaction handle.
type MockRepository struct {
	attempts  *MockAttemptRepository
	exams     *MockExamRepository
	profiles  *MockProfileRepository
	dashboard *MockDashboardRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		attempts:  new(MockAttemptRepository),
		exams:     new(MockExamRepository),
		profiles:  new(MockProfileRepository),
		dashboard: new(MockDashboardRepository),
	}
}

func (m *MockRepository) Attempt() repositories.AttemptRepository     { return m.attempts }
func (m *MockRepository) Exam() repositories.ExamRepository           { return m.exams }
func (m *MockRepository) Profile() repositories.ProfileRepository     { return m.profiles }
func (m *MockRepository) Dashboard() repositories.DashboardRepository { return m.dashboard }

func (m *MockRepository) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// failingPublisher rejects every event.
type failingPublisher struct{}

func (failingPublisher) PublishActivityEvent(ctx context.Context, event *events.ActivityEvent) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

// ===== FIXTURES =====

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func completedAttempt(id string, score, timeTaken int, completedAt time.Time) *models.UserAttempt {
	return &models.UserAttempt{
		ID:             id,
		UserID:         "user-1",
		ExamID:         "exam-1",
		IsCompleted:    true,
		Score:          intPtr(score),
		CorrectAnswers: intPtr(score / 10),
		TotalQuestions: 10,
		TimeTaken:      intPtr(timeTaken),
		StartedAt:      completedAt.Add(-time.Duration(timeTaken) * time.Second),
		CompletedAt:    &completedAt,
		Exam:           &models.Exam{ID: "exam-1", Title: "Algebra"},
	}
}

// attemptHistory returns three completed attempts inside the last month, one
// older completed attempt and one unfinished attempt.
func attemptHistory() []*models.UserAttempt {
	unfinished := &models.UserAttempt{
		ID:             "a-open",
		UserID:         "user-1",
		ExamID:         "exam-1",
		TotalQuestions: 10,
		StartedAt:      fixedNow.Add(-time.Hour),
	}
	return []*models.UserAttempt{
		unfinished,
		completedAttempt("a-1", 95, 20*60, fixedNow.AddDate(0, 0, -1)),
		completedAttempt("a-2", 80, 30*60, fixedNow.AddDate(0, 0, -3)),
		completedAttempt("a-3", 65, 50*60, fixedNow.AddDate(0, 0, -10)),
		completedAttempt("a-4", 40, 45*60, fixedNow.AddDate(0, -3, 0)),
	}
}
