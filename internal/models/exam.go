package models

import (
	"time"
)

type Exam struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Title          string    `json:"title" gorm:"not null;size:200"`
	Description    *string   `json:"description" gorm:"type:text"`
	TotalQuestions int       `json:"total_questions" gorm:"not null;default:0"`
	Duration       int       `json:"duration" gorm:"not null;default:0"` // minutes
	IsActive       bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exams"
}
