package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const profileExportPrefix = "profile-data-"

// ProfileService manages the user's profile, settings and achievements.
type ProfileService interface {
	// GetProfile returns the profile with the user's headline statistics.
	// A user without a stored profile gets one with default settings.
	GetProfile(ctx context.Context, userID string, locale stats.Locale) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	UpdateSettings(ctx context.Context, userID string, req *models.UpdateSettingsRequest) (*models.UserSettings, error)
	GetAchievements(ctx context.Context, userID string, locale stats.Locale) (*AchievementsResponse, error)
	// ExportData renders profile-data-<date>.json.
	ExportData(ctx context.Context, userID string, locale stats.Locale) (*stats.ExportFile, error)
}

type ProfileResponse struct {
	Profile    *models.Profile     `json:"profile"`
	Settings   models.UserSettings `json:"settings"`
	Statistics ProfileStatistics   `json:"statistics"`
	Level      stats.Level         `json:"level"`
	Rank       stats.Rank          `json:"rank"`
}

// ProfileStatistics summarises the completed attempts on the profile page.
type ProfileStatistics struct {
	TotalAttempts    int     `json:"total_attempts"`
	AverageScore     float64 `json:"average_score"`
	HighestScore     int     `json:"highest_score"`
	TotalTimeMinutes int     `json:"total_time_minutes"`
}

type AchievementsResponse struct {
	Achievements []stats.Achievement `json:"achievements"`
	Unlocked     int                 `json:"unlocked"`
	Total        int                 `json:"total"`
}

// ProfileDataExport is the document written by ExportData.
type ProfileDataExport struct {
	Profile      *models.Profile     `json:"profile"`
	Attempts     []stats.Attempt     `json:"attempts"`
	Achievements []stats.Achievement `json:"achievements"`
	Statistics   ProfileStatistics   `json:"statistics"`
	ExportDate   time.Time           `json:"export_date"`
}

type profileService struct {
	repo      repositories.Repository
	stats     StatsService
	activity  ActivityEventService
	logger    *slog.Logger
	svcLogger *ServiceLogger
	validator *validator.Validator
	opts      Options
}

func NewProfileService(
	repo repositories.Repository,
	statsService StatsService,
	activity ActivityEventService,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) ProfileService {
	return &profileService{
		repo:      repo,
		stats:     statsService,
		activity:  activity,
		logger:    logger,
		svcLogger: NewServiceLogger(logger, LogConfig{Service: "exam-prep-service", Component: "profile"}),
		validator: validator,
		opts:      opts,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string, locale stats.Locale) (resp *ProfileResponse, err error) {
	op := s.svcLogger.WithOperation(ctx, "get_profile", userID)
	defer func() { op.LogResult(userID, "profile", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}

	profile, attempts, err := s.loadProfileAndAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}

	statistics := profileStatistics(attempts)
	return &ProfileResponse{
		Profile:    profile,
		Settings:   profile.UserSettings(),
		Statistics: statistics,
		Level:      stats.LevelFor(statistics.AverageScore, locale),
		Rank:       stats.RankFor(statistics.AverageScore, locale),
	}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (profile *models.Profile, err error) {
	op := s.svcLogger.WithOperation(ctx, "update_profile", userID)
	defer func() { op.LogResult(userID, "profile", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var changed []string
	err = s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		current, err := s.getOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}

		changed = applyProfileUpdate(current, req)
		if len(changed) == 0 {
			profile = current
			return nil
		}
		current.UpdatedAt = s.opts.now()
		if err := s.repo.Profile().Upsert(ctx, tx, current); err != nil {
			return err
		}
		profile = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if len(changed) > 0 {
		op.LogAudit(AuditEventUpdate, "profile", changed, nil)
		notifyBestEffort(ctx, s.logger, string(events.EventProfileUpdated), func(ctx context.Context) error {
			return s.activity.NotifyProfileUpdated(ctx, userID, changed, false)
		})
	}
	return profile, nil
}

func (s *profileService) UpdateSettings(ctx context.Context, userID string, req *models.UpdateSettingsRequest) (settings *models.UserSettings, err error) {
	op := s.svcLogger.WithOperation(ctx, "update_settings", userID)
	defer func() { op.LogResult(userID, "settings", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var previous, updated models.UserSettings
	err = s.repo.WithTx(ctx, func(tx *gorm.DB) error {
		current, err := s.getOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}
		previous = current.UserSettings()
		updated = req.Apply(previous)
		if updated == previous {
			return nil
		}
		return s.repo.Profile().UpdateSettings(ctx, tx, userID, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	if updated != previous {
		op.LogAudit(AuditEventUpdate, "settings", previous, updated)
		notifyBestEffort(ctx, s.logger, string(events.EventProfileUpdated), func(ctx context.Context) error {
			return s.activity.NotifyProfileUpdated(ctx, userID, []string{"settings"}, true)
		})
	}
	return &updated, nil
}

func (s *profileService) GetAchievements(ctx context.Context, userID string, locale stats.Locale) (resp *AchievementsResponse, err error) {
	op := s.svcLogger.WithOperation(ctx, "get_achievements", userID)
	defer func() { op.LogResult(userID, "achievement", err) }()

	attempts, err := s.stats.GetAttempts(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	achievements := stats.EvaluateAchievements(attempts, locale)
	return &AchievementsResponse{
		Achievements: achievements,
		Unlocked:     len(stats.UnlockedAchievements(achievements)),
		Total:        len(achievements),
	}, nil
}

func (s *profileService) ExportData(ctx context.Context, userID string, locale stats.Locale) (file *stats.ExportFile, err error) {
	op := s.svcLogger.WithOperation(ctx, "export_profile_data", userID)
	defer func() { op.LogResult(userID, "profile", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}

	profile, attempts, err := s.loadProfileAndAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	unlocked := stats.UnlockedAchievements(stats.EvaluateAchievements(attempts, locale))
	doc := ProfileDataExport{
		Profile:      profile,
		Attempts:     stats.ByRecency(attempts),
		Achievements: unlocked,
		Statistics:   profileStatistics(attempts),
		ExportDate:   now.UTC(),
	}

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile export: %w", err)
	}

	file = &stats.ExportFile{
		Filename:    profileExportPrefix + now.In(s.opts.location()).Format("2006-01-02") + ".json",
		ContentType: stats.FormatJSON.ContentType(),
		Content:     content,
		Records:     len(attempts),
	}

	ids := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		ids = append(ids, string(a.ID))
	}
	notifyBestEffort(ctx, s.logger, string(events.EventProfileDataExported), func(ctx context.Context) error {
		return s.activity.NotifyProfileDataExported(ctx, userID, file.Filename, len(attempts), ids)
	})

	return file, nil
}

// loadProfileAndAttempts fetches the profile and the attempt history concurrently.
func (s *profileService) loadProfileAndAttempts(ctx context.Context, userID string) (*models.Profile, []stats.Attempt, error) {
	var (
		profile  *models.Profile
		attempts []stats.Attempt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.getOrCreate(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		attempts, err = s.stats.GetAttempts(gctx, userID, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, attempts, nil
}

// getOrCreate returns the stored profile, creating a default one on first access.
func (s *profileService) getOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, tx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	now := s.opts.now()
	profile = models.NewProfile(userID, now)
	profile.CreatedAt = now
	profile.UpdatedAt = now
	created, err := s.repo.Profile().CreateIfMissing(ctx, tx, profile)
	if err != nil {
		return nil, err
	}
	if !created {
		// A concurrent request created it first; its row wins.
		stored, err := s.repo.Profile().GetByUserID(ctx, tx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return stored, nil
	}
	s.logger.Info("Created default profile", "user_id", userID)
	return profile, nil
}

// applyProfileUpdate copies the set fields of req onto p and returns the
// names of the fields whose value changed.
func applyProfileUpdate(p *models.Profile, req *models.UpdateProfileRequest) []string {
	var changed []string
	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != p.FullName {
			p.FullName = name
			changed = append(changed, "full_name")
		}
	}
	if req.Email != nil {
		if email := strings.TrimSpace(*req.Email); email != p.Email {
			p.Email = email
			changed = append(changed, "email")
		}
	}
	if setOptional(&p.Phone, req.Phone) {
		changed = append(changed, "phone")
	}
	if setOptional(&p.Location, req.Location) {
		changed = append(changed, "location")
	}
	if setOptional(&p.Bio, req.Bio) {
		changed = append(changed, "bio")
	}
	return changed
}

// setOptional stores v in *dst, clearing it for a blank value. It reports a change.
func setOptional(dst **string, v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		if *dst == nil {
			return false
		}
		*dst = nil
		return true
	}
	if *dst != nil && **dst == trimmed {
		return false
	}
	*dst = &trimmed
	return true
}

func profileStatistics(attempts []stats.Attempt) ProfileStatistics {
	summary := stats.ComputeSummary(attempts)
	return ProfileStatistics{
		TotalAttempts:    summary.TotalAttempts,
		AverageScore:     summary.AverageScore,
		HighestScore:     summary.HighestScore,
		TotalTimeMinutes: summary.TotalTime / 60,
	}
}
