package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizAttempt struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id" gorm:"not null;index"`
	QuizID      string         `json:"quiz_id" gorm:"not null;index"`
	Score       int            `json:"score" gorm:"not null"` // 0-100
	CompletedAt time.Time      `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Answers []QuizAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`

	// QuizTitle is denormalized enrichment populated only when the gateway
	// joins against quizzes.
	QuizTitle string `json:"quiz_title,omitempty" gorm:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
