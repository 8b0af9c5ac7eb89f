package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserSettings are the per-user preferences stored as JSON on the profile.
type UserSettings struct {
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	ExamReminders      bool   `json:"exam_reminders"`
	WeeklyReports      bool   `json:"weekly_reports"`
	DarkMode           bool   `json:"dark_mode"`
	Language           string `json:"language"`
}

// DefaultUserSettings returns the settings of a user who never changed them.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		EmailNotifications: true,
		PushNotifications:  true,
		ExamReminders:      true,
		WeeklyReports:      false,
		DarkMode:           false,
		Language:           "ar",
	}
}

type Profile struct {
	UserID   string  `json:"user_id" gorm:"primaryKey;size:255"`
	FullName string  `json:"full_name" gorm:"not null;size:100"`
	Email    string  `json:"email" gorm:"size:255"`
	Phone    *string `json:"phone" gorm:"size:32"`
	Location *string `json:"location" gorm:"size:100"`
	Bio      *string `json:"bio" gorm:"type:text"`

	Settings datatypes.JSONType[UserSettings] `json:"settings"`

	JoinDate  time.Time `json:"join_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// NewProfile returns an empty profile with default settings.
func NewProfile(userID string, joinDate time.Time) *Profile {
	return &Profile{
		UserID:   userID,
		Settings: datatypes.NewJSONType(DefaultUserSettings()),
		JoinDate: joinDate,
	}
}

// UserSettings returns the stored settings with defaults for a missing language.
func (p *Profile) UserSettings() UserSettings {
	s := p.Settings.Data()
	if s.Language == "" {
		s.Language = DefaultUserSettings().Language
	}
	return s
}
