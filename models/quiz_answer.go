package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizAnswer struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	AttemptID     string         `json:"attempt_id" gorm:"not null;index"`
	QuestionID    string         `json:"question_id" gorm:"not null"`
	SelectedIndex int            `json:"selected_index" gorm:"not null"`
	IsCorrect     bool           `json:"is_correct" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
