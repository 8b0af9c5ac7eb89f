package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/testutil"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StatsServiceSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *MockRepository
	publisher *events.MockEventPublisher
	service   StatsService
}

func (s *StatsServiceSuite) SetupTest() {
	logger := testutil.DiscardLogger()
	s.ctx = context.Background()
	s.repo = NewMockRepository()
	s.publisher = events.NewMockEventPublisher(logger)
	s.service = NewStatsService(
		s.repo,
		NewActivityEventService(s.publisher, logger),
		logger,
		validator.New(),
		Options{Now: func() time.Time { return fixedNow }},
	)
}

func (s *StatsServiceSuite) expectHistory() {
	s.repo.attempts.On("ListByUser", mock.Anything, mock.Anything, "user-1", repositories.AttemptFilters{}).
		Return(attemptHistory(), nil)
}

func (s *StatsServiceSuite) TestGetAttemptsKeepsCompletedOnly() {
	s.expectHistory()

	attempts, err := s.service.GetAttempts(s.ctx, "user-1", false)

	s.Require().NoError(err)
	s.Len(attempts, 4)
	for _, a := range attempts {
		s.True(a.IsCompleted)
		s.NotEqual("a-open", a.ID)
	}
	s.repo.attempts.AssertNotCalled(s.T(), "InvalidateUser", mock.Anything, mock.Anything)
}

func (s *StatsServiceSuite) TestGetAttemptsRefreshInvalidatesCache() {
	s.expectHistory()
	s.repo.attempts.On("InvalidateUser", mock.Anything, "user-1").Return()

	_, err := s.service.GetAttempts(s.ctx, "user-1", true)

	s.Require().NoError(err)
	s.repo.attempts.AssertCalled(s.T(), "InvalidateUser", mock.Anything, "user-1")
}

func (s *StatsServiceSuite) TestGetAttemptsRequiresUser() {
	_, err := s.service.GetAttempts(s.ctx, "", false)

	s.ErrorIs(err, ErrUnauthorized)
	s.repo.attempts.AssertNotCalled(s.T(), "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *StatsServiceSuite) TestGetAttemptsRepositoryFailure() {
	s.repo.attempts.On("ListByUser", mock.Anything, mock.Anything, "user-1", repositories.AttemptFilters{}).
		Return(nil, errors.New("connection reset"))

	_, err := s.service.GetAttempts(s.ctx, "user-1", false)

	s.Require().Error(err)
	s.False(IsValidation(err))
	s.Contains(err.Error(), "connection reset")
}

func (s *StatsServiceSuite) TestGetReportDefaultsToLastMonth() {
	s.expectHistory()

	report, err := s.service.GetReport(s.ctx, "user-1", &models.StatsQuery{}, stats.English)

	s.Require().NoError(err)
	s.Equal(stats.PeriodMonth, report.Period)
	s.Equal(3, report.Summary.TotalAttempts)
	s.Equal(95, report.Summary.HighestScore)
	s.Equal(65, report.Summary.LowestScore)
	s.InDelta(80.0, report.Summary.AverageScore, 0.01)
	s.Equal(stats.LevelAdvanced, report.Level.Key)
	s.Equal(stats.English.LevelLabels[stats.LevelAdvanced], report.Level.Label)
	s.Equal(3, report.Attempts.Total)
}

func (s *StatsServiceSuite) TestGetReportQueryLocaleWins() {
	s.expectHistory()

	report, err := s.service.GetReport(s.ctx, "user-1", &models.StatsQuery{Period: "all", Locale: "ar"}, stats.English)

	s.Require().NoError(err)
	s.Equal(4, report.Summary.TotalAttempts)
	s.Equal(stats.Arabic.RankLabels[report.Rank.Key], report.Rank.Label)
}

func (s *StatsServiceSuite) TestGetReportRejectsInvalidQuery() {
	tests := []struct {
		name  string
		query models.StatsQuery
	}{
		{name: "unknown period", query: models.StatsQuery{Period: "decade"}},
		{name: "unknown metric", query: models.StatsQuery{Metric: "speed"}},
		{name: "bad timezone", query: models.StatsQuery{Timezone: "Mars/Olympus"}},
		{name: "page size too large", query: models.StatsQuery{PageSize: 500}},
		{name: "reversed range", query: models.StatsQuery{
			Period: "custom",
			Start:  timePtr(fixedNow),
			End:    timePtr(fixedNow.AddDate(0, 0, -5)),
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.GetReport(s.ctx, "user-1", &tt.query, stats.Arabic)
			s.Require().Error(err)
			s.True(IsValidation(err), "expected validation error, got %v", err)
		})
	}
	s.repo.attempts.AssertNotCalled(s.T(), "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *StatsServiceSuite) TestGetReportIncompleteCustomRangeIsEmpty() {
	s.expectHistory()

	report, err := s.service.GetReport(s.ctx, "user-1", &models.StatsQuery{
		Period: "custom",
		Start:  timePtr(fixedNow.AddDate(0, 0, -30)),
	}, stats.Arabic)

	s.Require().NoError(err)
	s.Equal(0, report.Summary.TotalAttempts)
	s.Empty(report.Attempts.Items)
}

func (s *StatsServiceSuite) TestExportDefaultsToAllAttempts() {
	s.expectHistory()

	file, err := s.service.Export(s.ctx, "user-1", &models.ExportRequest{Format: "csv"}, stats.Arabic)

	s.Require().NoError(err)
	s.Equal(4, file.Records)
	s.Equal("exam-statistics-2025-06-15.csv", file.Filename)
	s.Equal(stats.FormatCSV.ContentType(), file.ContentType)
	s.True(strings.HasPrefix(string(file.Content), "\uFEFF"))

	published := s.publisher.GetPublishedEvents()
	s.Require().Len(published, 1)
	s.Equal(events.EventStatsExported, published[0].Type)
	s.Equal("user-1", published[0].UserID)
	payload, ok := published[0].Data.(events.StatsExportedEvent)
	s.Require().True(ok)
	s.Equal("csv", payload.Format)
	s.Equal("all", payload.Period)
	s.Equal(4, payload.RecordCount)
	s.Equal(file.Filename, payload.Filename)
}

func (s *StatsServiceSuite) TestExportCustomRangeRecordsBounds() {
	s.expectHistory()

	file, err := s.service.Export(s.ctx, "user-1", &models.ExportRequest{
		StatsQuery: models.StatsQuery{
			Period: "custom",
			Start:  timePtr(fixedNow.AddDate(0, 0, -3)),
			End:    timePtr(fixedNow.AddDate(0, 0, -1)),
		},
		Format: "json",
	}, stats.English)

	s.Require().NoError(err)
	s.Equal(2, file.Records)

	published := s.publisher.GetPublishedEvents()
	s.Require().Len(published, 1)
	payload := published[0].Data.(events.StatsExportedEvent)
	s.Require().NotNil(payload.RangeStart)
	s.Require().NotNil(payload.RangeEnd)
	s.True(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC).Equal(*payload.RangeStart))
}

func (s *StatsServiceSuite) TestExportNothingSelected() {
	s.expectHistory()

	_, err := s.service.Export(s.ctx, "user-1", &models.ExportRequest{
		StatsQuery: models.StatsQuery{
			Period: "custom",
			Start:  timePtr(fixedNow.AddDate(-2, 0, 0)),
			End:    timePtr(fixedNow.AddDate(-1, 0, 0)),
		},
		Format: "xlsx",
	}, stats.Arabic)

	s.Require().Error(err)
	s.True(IsEmptyExport(err))
	s.True(IsBusinessRule(err))
	s.ErrorIs(err, ErrEmptyExport)
	s.Empty(s.publisher.GetPublishedEvents())
}

func (s *StatsServiceSuite) TestExportRejectsUnknownFormat() {
	_, err := s.service.Export(s.ctx, "user-1", &models.ExportRequest{Format: "pdf"}, stats.Arabic)

	s.Require().Error(err)
	s.True(IsValidation(err))
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}

func TestStatsService_ExportSucceedsWhenPublishFails(t *testing.T) {
	logger := testutil.DiscardLogger()
	repo := NewMockRepository()
	repo.attempts.On("ListByUser", mock.Anything, mock.Anything, "user-1", repositories.AttemptFilters{}).
		Return(attemptHistory(), nil)

	service := NewStatsService(repo, NewActivityEventService(failingPublisher{}, logger), logger, validator.New(),
		Options{Now: func() time.Time { return fixedNow }})

	file, err := service.Export(context.Background(), "user-1", &models.ExportRequest{Format: "json"}, stats.Arabic)

	require.NoError(t, err)
	assert.Equal(t, 4, file.Records)
}

func TestViewConfigFromQuery(t *testing.T) {
	riyadh, err := time.LoadLocation("Asia/Riyadh")
	require.NoError(t, err)

	t.Run("custom range covers whole days in the requested timezone", func(t *testing.T) {
		q := &models.StatsQuery{
			Period:   "custom",
			Start:    timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
			End:      timePtr(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)),
			Timezone: "Asia/Riyadh",
		}

		view, err := ViewConfigFromQuery(q, stats.Arabic, time.UTC)

		require.NoError(t, err)
		require.NotNil(t, view.Custom)
		assert.True(t, time.Date(2025, 6, 1, 0, 0, 0, 0, riyadh).Equal(*view.Custom.Start))
		assert.True(t, time.Date(2025, 6, 8, 0, 0, 0, 0, riyadh).Add(-time.Nanosecond).Equal(*view.Custom.End))
		assert.Equal(t, "Asia/Riyadh", view.Location.String())
	})

	t.Run("defaults fill unset fields", func(t *testing.T) {
		view, err := ViewConfigFromQuery(&models.StatsQuery{}, stats.English, riyadh)

		require.NoError(t, err)
		assert.Equal(t, stats.PeriodMonth, view.Period)
		assert.Nil(t, view.Custom)
		assert.Equal(t, "en", view.Locale.Code)
		assert.Same(t, riyadh, view.Location)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		_, err := ViewConfigFromQuery(&models.StatsQuery{Timezone: "Nowhere/City"}, stats.Arabic, time.UTC)

		assert.True(t, IsValidation(err))
	})
}

func timePtr(t time.Time) *time.Time { return &t }
