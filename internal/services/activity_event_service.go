package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
)

// ActivityEventService publishes the user activity events of the service.
type ActivityEventService interface {
	NotifyStatsExported(ctx context.Context, userID string, payload events.StatsExportedEvent) error
	NotifyProfileUpdated(ctx context.Context, userID string, fields []string, settingsChanged bool) error
	NotifyProfileDataExported(ctx context.Context, userID, filename string, attemptCount int, achievementIDs []string) error
}

type activityEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewActivityEventService(eventPublisher events.EventPublisher, logger *slog.Logger) ActivityEventService {
	return &activityEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== STATISTICS EVENTS =====

func (s *activityEventService) NotifyStatsExported(ctx context.Context, userID string, payload events.StatsExportedEvent) error {
	s.logger.Info("Publishing stats exported event",
		"user_id", userID,
		"format", payload.Format,
		"record_count", payload.RecordCount)

	return s.publish(ctx, events.NewStatsExportedEvent(userID, payload))
}

// ===== PROFILE EVENTS =====

func (s *activityEventService) NotifyProfileUpdated(ctx context.Context, userID string, fields []string, settingsChanged bool) error {
	s.logger.Info("Publishing profile updated event",
		"user_id", userID,
		"fields", fields,
		"settings_changed", settingsChanged)

	return s.publish(ctx, events.NewProfileUpdatedEvent(userID, fields, settingsChanged))
}

func (s *activityEventService) NotifyProfileDataExported(ctx context.Context, userID, filename string, attemptCount int, achievementIDs []string) error {
	s.logger.Info("Publishing profile data exported event",
		"user_id", userID,
		"filename", filename,
		"attempt_count", attemptCount)

	return s.publish(ctx, events.NewProfileDataExportedEvent(userID, filename, attemptCount, achievementIDs))
}

func (s *activityEventService) publish(ctx context.Context, event *events.ActivityEvent) error {
	if err := s.eventPublisher.PublishActivityEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// notifyBestEffort publishes after the operation already succeeded, so a
// failure is logged and never returned to the user. A cancelled request does
// not cancel the publish.
func notifyBestEffort(ctx context.Context, logger *slog.Logger, name string, notify func(ctx context.Context) error) {
	if err := notify(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("Failed to publish activity event", "event", name, "error", err)
	}
}
