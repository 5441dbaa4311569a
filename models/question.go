package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizQuestion struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	QuizID       string         `json:"quiz_id" gorm:"not null;index"`
	Text         string         `json:"text" gorm:"not null"`
	Options      []string       `json:"options" gorm:"serializer:json"`
	CorrectIndex int            `json:"correct_index" gorm:"not null"`
	Explanation  string         `json:"explanation,omitempty"`
	Order        int            `json:"order" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
