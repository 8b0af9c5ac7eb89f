package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the different activity events emitted by the service
type EventType string

const (
	// Statistics events
	EventStatsExported EventType = "stats.exported"

	// Profile events
	EventProfileUpdated      EventType = "profile.updated"
	EventProfileDataExported EventType = "profile.data_exported"
)

const (
	eventSource  = "exam-prep-service"
	eventVersion = "1.0"
)

// ActivityEvent is the envelope for every event published by the service
type ActivityEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	UserID    string         `json:"user_id"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Event payloads

type StatsExportedEvent struct {
	Format      string     `json:"format"`
	Period      string     `json:"period"`
	RecordCount int        `json:"record_count"`
	Filename    string     `json:"filename"`
	RangeStart  *time.Time `json:"range_start,omitempty"`
	RangeEnd    *time.Time `json:"range_end,omitempty"`
}

type ProfileUpdatedEvent struct {
	Fields          []string `json:"fields"`
	SettingsChanged bool     `json:"settings_changed"`
}

type ProfileDataExportedEvent struct {
	Filename       string   `json:"filename"`
	AttemptCount   int      `json:"attempt_count"`
	AchievementIDs []string `json:"achievement_ids"`
}

// Event factory functions

func newActivityEvent(eventType EventType, userID string, data any) *ActivityEvent {
	return &ActivityEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		UserID:    userID,
		Data:      data,
	}
}

func NewStatsExportedEvent(userID string, payload StatsExportedEvent) *ActivityEvent {
	return newActivityEvent(EventStatsExported, userID, payload)
}

func NewProfileUpdatedEvent(userID string, fields []string, settingsChanged bool) *ActivityEvent {
	return newActivityEvent(EventProfileUpdated, userID, ProfileUpdatedEvent{
		Fields:          fields,
		SettingsChanged: settingsChanged,
	})
}

func NewProfileDataExportedEvent(userID, filename string, attemptCount int, achievementIDs []string) *ActivityEvent {
	return newActivityEvent(EventProfileDataExported, userID, ProfileDataExportedEvent{
		Filename:       filename,
		AttemptCount:   attemptCount,
		AchievementIDs: achievementIDs,
	})
}

// GenerateEventID returns a new random event id
func GenerateEventID() string {
	return uuid.NewString()
}
