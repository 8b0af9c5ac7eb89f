package models

import "time"

// StatsQuery carries the view selection of the statistics endpoints.
type StatsQuery struct {
	Period    string     `form:"period" json:"period" validate:"omitempty,stats_period"`
	Start     *time.Time `form:"start" json:"start" time_format:"2006-01-02"`
	End       *time.Time `form:"end" json:"end" time_format:"2006-01-02"`
	Metric    string     `form:"metric" json:"metric" validate:"omitempty,view_metric"`
	ChartType string     `form:"chart_type" json:"chart_type" validate:"omitempty,chart_type"`
	Sort      string     `form:"sort" json:"sort" validate:"omitempty,sort_order"`
	Page      int        `form:"page" json:"page" validate:"omitempty,min=1,max=100000"`
	PageSize  int        `form:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
	Locale    string     `form:"locale" json:"locale" validate:"omitempty,language"`
	Timezone  string     `form:"tz" json:"tz" validate:"omitempty,timezone"`
	Refresh   bool       `form:"refresh" json:"refresh"`
}

// ExportRequest selects the format and the attempts of a statistics export.
type ExportRequest struct {
	StatsQuery
	Format string `form:"format" json:"format" validate:"required,export_format"`
}

// UpdateProfileRequest holds the editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateSettingsRequest holds the settings toggles. Nil fields are left unchanged.
type UpdateSettingsRequest struct {
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
	ExamReminders      *bool   `json:"exam_reminders"`
	WeeklyReports      *bool   `json:"weekly_reports"`
	DarkMode           *bool   `json:"dark_mode"`
	Language           *string `json:"language" validate:"omitempty,language"`
}

// Apply returns s with the requested changes.
func (r UpdateSettingsRequest) Apply(s UserSettings) UserSettings {
	if r.EmailNotifications != nil {
		s.EmailNotifications = *r.EmailNotifications
	}
	if r.PushNotifications != nil {
		s.PushNotifications = *r.PushNotifications
	}
	if r.ExamReminders != nil {
		s.ExamReminders = *r.ExamReminders
	}
	if r.WeeklyReports != nil {
		s.WeeklyReports = *r.WeeklyReports
	}
	if r.DarkMode != nil {
		s.DarkMode = *r.DarkMode
	}
	if r.Language != nil {
		s.Language = *r.Language
	}
	return s
}
