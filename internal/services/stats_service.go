package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
)

// StatsService serves the statistics views and exports of a user's attempts.
type StatsService interface {
	// GetAttempts returns the user's validated, completed attempts.
	GetAttempts(ctx context.Context, userID string, refresh bool) ([]stats.Attempt, error)

	// GetReport builds every statistics block for the query's view.
	GetReport(ctx context.Context, userID string, query *models.StatsQuery, locale stats.Locale) (*stats.Report, error)

	// Export renders the attempts selected by the request's period.
	Export(ctx context.Context, userID string, req *models.ExportRequest, locale stats.Locale) (*stats.ExportFile, error)
}

// Options holds the settings shared by the services.
type Options struct {
	// Location is used for date labels and custom ranges when the request names no timezone.
	Location *time.Location
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

type statsService struct {
	repo      repositories.Repository
	activity  ActivityEventService
	logger    *slog.Logger
	svcLogger *ServiceLogger
	validator *validator.Validator
	opts      Options
}

func NewStatsService(
	repo repositories.Repository,
	activity ActivityEventService,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) StatsService {
	return &statsService{
		repo:      repo,
		activity:  activity,
		logger:    logger,
		svcLogger: NewServiceLogger(logger, LogConfig{Service: "exam-prep-service", Component: "stats"}),
		validator: validator,
		opts:      opts,
	}
}

func (s *statsService) GetAttempts(ctx context.Context, userID string, refresh bool) (attempts []stats.Attempt, err error) {
	op := s.svcLogger.WithOperation(ctx, "get_attempts", userID)
	defer func() { op.LogResult("", "attempt", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.loadAttempts(ctx, userID, refresh)
}

func (s *statsService) GetReport(ctx context.Context, userID string, query *models.StatsQuery, locale stats.Locale) (report *stats.Report, err error) {
	op := s.svcLogger.WithOperation(ctx, "get_report", userID)
	defer func() { op.LogResult("", "report", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(query); err != nil {
		return nil, err
	}

	view, err := ViewConfigFromQuery(query, locale, s.opts.location())
	if err != nil {
		return nil, err
	}
	s.warnIncompleteRange(ctx, "get_report", userID, view)

	attempts, err := s.loadAttempts(ctx, userID, query.Refresh)
	if err != nil {
		return nil, err
	}

	built := stats.BuildReport(attempts, view, s.opts.now())
	return &built, nil
}

func (s *statsService) Export(ctx context.Context, userID string, req *models.ExportRequest, locale stats.Locale) (file *stats.ExportFile, err error) {
	op := s.svcLogger.WithOperation(ctx, "export_stats", userID)
	defer func() { op.LogResult("", "export", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	view, err := ViewConfigFromQuery(&req.StatsQuery, locale, s.opts.location())
	if err != nil {
		return nil, err
	}
	// Exports cover every attempt unless a period is picked explicitly.
	if req.Period == "" {
		view.Period = stats.PeriodAll
	}
	s.warnIncompleteRange(ctx, "export_stats", userID, view)

	attempts, err := s.loadAttempts(ctx, userID, req.Refresh)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	selected := stats.FilterByPeriod(attempts, view.Period, view.Custom, now)

	file, err = stats.Export(selected, stats.ExportOptions{
		Format:   stats.ExportFormat(req.Format),
		Period:   view.Period,
		Custom:   view.Custom,
		Locale:   view.Locale,
		Location: view.Location,
		Now:      now,
	})
	if err != nil {
		if empty, ok := asEmptyExport(err); ok {
			return nil, newEmptyExportError(empty)
		}
		return nil, fmt.Errorf("failed to export statistics: %w", err)
	}

	payload := events.StatsExportedEvent{
		Format:      req.Format,
		Period:      string(view.Period),
		RecordCount: file.Records,
		Filename:    file.Filename,
	}
	if view.Custom != nil {
		payload.RangeStart = view.Custom.Start
		payload.RangeEnd = view.Custom.End
	}
	notifyBestEffort(ctx, s.logger, string(events.EventStatsExported), func(ctx context.Context) error {
		return s.activity.NotifyStatsExported(ctx, userID, payload)
	})

	return file, nil
}

// loadAttempts reads the user's attempt history and keeps the well-formed
// completed ones.
func (s *statsService) loadAttempts(ctx context.Context, userID string, refresh bool) ([]stats.Attempt, error) {
	if refresh {
		s.repo.Attempt().InvalidateUser(ctx, userID)
	}

	rows, err := s.repo.Attempt().ListByUser(ctx, nil, userID, repositories.AttemptFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	attempts := stats.ValidateRecords(models.ToRawAttempts(rows))
	if dropped := len(rows) - len(attempts); dropped > 0 {
		s.logger.Debug("Skipped attempts excluded from statistics",
			"user_id", userID,
			"total", len(rows),
			"skipped", dropped)
	}
	return attempts, nil
}

func (s *statsService) warnIncompleteRange(ctx context.Context, operation, userID string, view stats.ViewConfig) {
	if view.Period == stats.PeriodCustom && !view.Custom.Complete() {
		s.svcLogger.Warn(ctx, operation, userID, "Custom period without a complete date range selects no attempts")
	}
}

// ViewConfigFromQuery turns the query parameters into a normalised view.
// Custom range bounds are whole days in the view's location: start at its
// first instant, end at its last.
func ViewConfigFromQuery(q *models.StatsQuery, locale stats.Locale, fallback *time.Location) (stats.ViewConfig, error) {
	loc := fallback
	if q.Timezone != "" {
		l, err := time.LoadLocation(q.Timezone)
		if err != nil {
			return stats.ViewConfig{}, NewValidationError("tz", "must be a valid IANA timezone", q.Timezone)
		}
		loc = l
	}
	if q.Locale != "" {
		locale = stats.LocaleFor(q.Locale)
	}

	view := stats.ViewConfig{
		Period:    stats.Period(q.Period),
		Metric:    stats.Metric(q.Metric),
		ChartType: stats.ChartType(q.ChartType),
		Sort:      stats.SortOrder(q.Sort),
		Page:      q.Page,
		PageSize:  q.PageSize,
		Locale:    locale,
		Location:  loc,
	}
	if view.Period == stats.PeriodCustom {
		view.Custom = &stats.DateRange{
			Start: startOfDay(q.Start, loc),
			End:   endOfDay(q.End, loc),
		}
	}
	return view.Normalize(), nil
}

func startOfDay(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &start
}

func endOfDay(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return &end
}
