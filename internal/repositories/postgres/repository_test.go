package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/cache"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-prep-service/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// countingCache is an in-memory CacheService that records hits.
type countingCache struct {
	data map[string][]byte
	hits int
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(b, dest)
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type RepositorySuite struct {
	suite.Suite
	db    *gorm.DB
	cache *countingCache
	repo  repositories.Repository
	base  time.Time
}

func (s *RepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cache = &countingCache{data: map[string][]byte{}}
	manager := cache.NewCacheManager(s.cache, testutil.DiscardLogger())
	s.repo = postgres.NewRepository(s.db, manager, time.Minute)
	s.base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	desc := "Algebra basics"
	exams := []*models.Exam{
		{ID: "exam-1", Title: "Algebra", Description: &desc, TotalQuestions: 10, IsActive: true},
		{ID: "exam-2", Title: "Geometry", TotalQuestions: 20, IsActive: true},
		{ID: "exam-3", Title: "Archived", TotalQuestions: 50, IsActive: false},
	}
	s.Require().NoError(s.db.Create(&exams).Error)
	// is_active has a column default, so false must be written explicitly
	s.Require().NoError(s.db.Model(&models.Exam{}).Where("id = ?", "exam-3").Update("is_active", false).Error)
}

func (s *RepositorySuite) insertAttempt(id, userID, examID string, completed bool, score *int, startedOffset time.Duration) {
	started := s.base.Add(startedOffset)
	attempt := &models.UserAttempt{
		ID:             id,
		UserID:         userID,
		ExamID:         examID,
		IsCompleted:    completed,
		Score:          score,
		TotalQuestions: 10,
		StartedAt:      started,
	}
	if completed {
		done := started.Add(20 * time.Minute)
		attempt.CompletedAt = &done
		attempt.TimeTaken = testutil.IntPtr(1200)
		attempt.CorrectAnswers = testutil.IntPtr(7)
	}
	s.Require().NoError(s.db.Create(attempt).Error)
}

func (s *RepositorySuite) TestListByUser_NewestFirstWithExam() {
	ctx := context.Background()
	s.insertAttempt("a1", "u1", "exam-1", true, testutil.IntPtr(80), 0)
	s.insertAttempt("a2", "u1", "exam-2", true, testutil.IntPtr(60), time.Hour)
	s.insertAttempt("a3", "u1", "exam-1", false, nil, 2*time.Hour)
	s.insertAttempt("b1", "u2", "exam-1", true, testutil.IntPtr(95), 0)

	attempts, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{})
	s.Require().NoError(err)
	s.Require().Len(attempts, 3)
	s.Equal("a3", attempts[0].ID)
	s.Equal("a2", attempts[1].ID)
	s.Equal("a1", attempts[2].ID)
	s.Require().NotNil(attempts[2].Exam)
	s.Equal("Algebra", attempts[2].Exam.Title)
	s.Nil(attempts[0].Score)
}

func (s *RepositorySuite) TestListByUser_Filters() {
	ctx := context.Background()
	s.insertAttempt("a1", "u1", "exam-1", true, testutil.IntPtr(80), 0)
	s.insertAttempt("a2", "u1", "exam-2", true, testutil.IntPtr(60), time.Hour)
	s.insertAttempt("a3", "u1", "exam-1", false, nil, 2*time.Hour)

	completed, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{CompletedOnly: true})
	s.Require().NoError(err)
	s.Len(completed, 2)

	examID := "exam-1"
	byExam, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{ExamID: &examID, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(byExam, 1)
	s.Equal("a3", byExam[0].ID)

	from := s.base.Add(30 * time.Minute)
	windowed, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{StartedFrom: &from})
	s.Require().NoError(err)
	s.Len(windowed, 2)

	s.Zero(s.cache.hits, "filtered reads bypass the cache")
}

func (s *RepositorySuite) TestListByUser_CachesSnapshotUntilInvalidated() {
	ctx := context.Background()
	s.insertAttempt("a1", "u1", "exam-1", true, testutil.IntPtr(80), 0)

	first, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{})
	s.Require().NoError(err)
	s.Len(first, 1)

	s.insertAttempt("a2", "u1", "exam-2", true, testutil.IntPtr(90), time.Hour)

	cached, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{})
	s.Require().NoError(err)
	s.Len(cached, 1)
	s.Equal(1, s.cache.hits)

	s.repo.Attempt().InvalidateUser(ctx, "u1")

	fresh, err := s.repo.Attempt().ListByUser(ctx, nil, "u1", repositories.AttemptFilters{})
	s.Require().NoError(err)
	s.Len(fresh, 2)
}

func (s *RepositorySuite) TestLatestByExam() {
	ctx := context.Background()
	s.insertAttempt("a1", "u1", "exam-1", true, testutil.IntPtr(80), 0)
	s.insertAttempt("a2", "u1", "exam-1", false, nil, time.Hour)
	s.insertAttempt("a3", "u1", "exam-2", true, testutil.IntPtr(50), 30*time.Minute)

	latest, err := s.repo.Attempt().LatestByExam(ctx, nil, "u1")
	s.Require().NoError(err)
	s.Len(latest, 2)
	s.Equal("a2", latest["exam-1"].ID)
	s.Equal("a3", latest["exam-2"].ID)
}

func (s *RepositorySuite) TestExams() {
	ctx := context.Background()

	active, err := s.repo.Exam().ListActive(ctx, nil)
	s.Require().NoError(err)
	s.Len(active, 2)

	exam, err := s.repo.Exam().GetByID(ctx, nil, "exam-2")
	s.Require().NoError(err)
	s.Equal("Geometry", exam.Title)

	_, err = s.repo.Exam().GetByID(ctx, nil, "missing")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *RepositorySuite) TestDashboardAggregates() {
	ctx := context.Background()
	s.insertAttempt("a1", "u1", "exam-1", true, testutil.IntPtr(80), 0)
	s.insertAttempt("a2", "u1", "exam-2", true, testutil.IntPtr(61), time.Hour)
	s.insertAttempt("a3", "u1", "exam-1", true, nil, 2*time.Hour)
	s.insertAttempt("a4", "u1", "exam-1", false, nil, 3*time.Hour)
	s.insertAttempt("b1", "u2", "exam-1", true, testutil.IntPtr(10), 0)

	dashboard := s.repo.Dashboard()

	exams, err := dashboard.CountActiveExams(ctx, nil)
	s.Require().NoError(err)
	s.Equal(int64(2), exams)

	questions, err := dashboard.SumActiveExamQuestions(ctx, nil)
	s.Require().NoError(err)
	s.Equal(int64(30), questions)

	completed, err := dashboard.CountCompletedAttempts(ctx, nil, "u1")
	s.Require().NoError(err)
	s.Equal(int64(3), completed)

	// a3 has no score and counts as 0, matching stats.ComputeSummary.
	avg, err := dashboard.AverageCompletedScore(ctx, nil, "u1")
	s.Require().NoError(err)
	s.InDelta(47.0, avg, 0.001)

	none, err := dashboard.AverageCompletedScore(ctx, nil, "nobody")
	s.Require().NoError(err)
	s.Zero(none)
}

func (s *RepositorySuite) TestProfiles() {
	ctx := context.Background()
	profiles := s.repo.Profile()

	_, err := profiles.GetByUserID(ctx, nil, "u1")
	s.ErrorIs(err, repositories.ErrNotFound)

	profile := models.NewProfile("u1", s.base)
	profile.FullName = "Sara"
	s.Require().NoError(profiles.Upsert(ctx, nil, profile))

	profile.FullName = "Sara Ali"
	s.Require().NoError(profiles.Upsert(ctx, nil, profile))

	stored, err := profiles.GetByUserID(ctx, nil, "u1")
	s.Require().NoError(err)
	s.Equal("Sara Ali", stored.FullName)
	s.Equal(models.DefaultUserSettings(), stored.UserSettings())

	settings := stored.UserSettings()
	settings.DarkMode = true
	settings.Language = "en"
	s.Require().NoError(profiles.UpdateSettings(ctx, nil, "u1", settings))

	stored, err = profiles.GetByUserID(ctx, nil, "u1")
	s.Require().NoError(err)
	s.True(stored.UserSettings().DarkMode)
	s.Equal("en", stored.UserSettings().Language)

	s.ErrorIs(profiles.UpdateSettings(ctx, nil, "nobody", settings), repositories.ErrNotFound)
}

func (s *RepositorySuite) TestCreateIfMissing_KeepsExistingProfile() {
	ctx := context.Background()
	profiles := s.repo.Profile()

	created, err := profiles.CreateIfMissing(ctx, nil, models.NewProfile("u1", s.base))
	s.Require().NoError(err)
	s.True(created)

	edited, err := profiles.GetByUserID(ctx, nil, "u1")
	s.Require().NoError(err)
	edited.FullName = "Sara Ali"
	s.Require().NoError(profiles.Upsert(ctx, nil, edited))

	// A late default insert from a concurrent first read must not win.
	created, err = profiles.CreateIfMissing(ctx, nil, models.NewProfile("u1", s.base.Add(time.Minute)))
	s.Require().NoError(err)
	s.False(created)

	stored, err := profiles.GetByUserID(ctx, nil, "u1")
	s.Require().NoError(err)
	s.Equal("Sara Ali", stored.FullName)
}

func (s *RepositorySuite) TestWithTx_RollsBackOnError() {
	ctx := context.Background()
	err := s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		profile := models.NewProfile("u9", s.base)
		profile.FullName = "Temp"
		if err := s.repo.Profile().Upsert(ctx, tx, profile); err != nil {
			return err
		}
		return repositories.ErrNotFound
	})
	s.ErrorIs(err, repositories.ErrNotFound)

	_, err = s.repo.Profile().GetByUserID(ctx, nil, "u9")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}
