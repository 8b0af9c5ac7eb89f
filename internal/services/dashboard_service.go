package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"golang.org/x/sync/errgroup"
)

// DashboardService builds the home view: catalog totals, the user's progress
// and the latest attempt per exam.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string, locale stats.Locale) (*DashboardResponse, error)
}

type DashboardResponse struct {
	ExamCount         int64       `json:"exam_count"`
	TotalQuestions    int64       `json:"total_questions"`
	CompletedAttempts int64       `json:"completed_attempts"`
	AverageScore      float64     `json:"average_score"`
	Level             stats.Level `json:"level"`
	Rank              stats.Rank  `json:"rank"`
	Exams             []ExamCard  `json:"exams"`
}

// ExamCard is an active exam with the user's most recent attempt on it.
type ExamCard struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description,omitempty"`
	TotalQuestions int            `json:"total_questions"`
	Duration       int            `json:"duration"`
	LatestAttempt  *AttemptStatus `json:"latest_attempt,omitempty"`
}

type AttemptStatus struct {
	ID          string     `json:"id"`
	IsCompleted bool       `json:"is_completed"`
	Score       *int       `json:"score,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type dashboardService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	svcLogger *ServiceLogger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:      repo,
		logger:    logger,
		svcLogger: NewServiceLogger(logger, LogConfig{Service: "exam-prep-service", Component: "dashboard"}),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string, locale stats.Locale) (resp *DashboardResponse, err error) {
	op := s.svcLogger.WithOperation(ctx, "get_dashboard", userID)
	defer func() { op.LogResult("", "dashboard", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}

	var (
		examCount, totalQuestions, completed int64
		average                              float64
		exams                                []*models.Exam
		latest                               map[string]*models.UserAttempt
	)

	g, gctx := errgroup.WithContext(ctx)
	dashboard := s.repo.Dashboard()

	g.Go(func() (err error) {
		examCount, err = dashboard.CountActiveExams(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		totalQuestions, err = dashboard.SumActiveExamQuestions(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		completed, err = dashboard.CountCompletedAttempts(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		average, err = dashboard.AverageCompletedScore(gctx, nil, userID)
		return err
	})
	g.Go(func() (err error) {
		exams, err = s.repo.Exam().ListActive(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.repo.Attempt().LatestByExam(gctx, nil, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	resp = &DashboardResponse{
		ExamCount:         examCount,
		TotalQuestions:    totalQuestions,
		CompletedAttempts: completed,
		AverageScore:      average,
		Level:             stats.LevelFor(average, locale),
		Rank:              stats.RankFor(average, locale),
		Exams:             make([]ExamCard, 0, len(exams)),
	}
	for _, exam := range exams {
		card := ExamCard{
			ID:             exam.ID,
			Title:          exam.Title,
			Description:    exam.Description,
			TotalQuestions: exam.TotalQuestions,
			Duration:       exam.Duration,
		}
		if attempt, ok := latest[exam.ID]; ok {
			card.LatestAttempt = &AttemptStatus{
				ID:          attempt.ID,
				IsCompleted: attempt.IsCompleted,
				Score:       attempt.Score,
				StartedAt:   attempt.StartedAt,
				CompletedAt: attempt.CompletedAt,
			}
		}
		resp.Exams = append(resp.Exams, card)
	}
	return resp, nil
}
