package services

import (
	"log/slog"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
	"github.com/SAP-F-2025/exam-prep-service/internal/repositories"
	"github.com/SAP-F-2025/exam-prep-service/internal/validator"
)

// ServiceManager gives the HTTP layer access to every service.
type ServiceManager interface {
	Stats() StatsService
	Dashboard() DashboardService
	Profile() ProfileService
	Activity() ActivityEventService
}

type serviceManager struct {
	stats     StatsService
	dashboard DashboardService
	profile   ProfileService
	activity  ActivityEventService
}

func NewServiceManager(
	repo repositories.Repository,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	opts Options,
) ServiceManager {
	activity := NewActivityEventService(eventPublisher, logger)
	statsService := NewStatsService(repo, activity, logger, validator, opts)

	return &serviceManager{
		stats:     statsService,
		dashboard: NewDashboardService(repo, logger),
		profile:   NewProfileService(repo, statsService, activity, logger, validator, opts),
		activity:  activity,
	}
}

func (m *serviceManager) Stats() StatsService            { return m.stats }
func (m *serviceManager) Dashboard() DashboardService    { return m.dashboard }
func (m *serviceManager) Profile() ProfileService        { return m.profile }
func (m *serviceManager) Activity() ActivityEventService { return m.activity }
