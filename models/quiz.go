package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description,omitempty"`
	ArticleID    string         `json:"article_id" gorm:"not null;index"`
	TimeLimit    int            `json:"time_limit,omitempty"` // seconds, 0 means untimed
	PassingScore int            `json:"passing_score" gorm:"not null;default:70"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Questions are loaded by the gateway, ordered by their Order value.
	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`

	// ArticleTitle is denormalized enrichment populated only when the
	// gateway joins against articles; cached copies may lack it.
	ArticleTitle string `json:"article_title,omitempty" gorm:"-"`
}

// QuizSummary is the lightweight projection stored in the cached quiz list
// record. It omits the question sequence.
type QuizSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ArticleID    string `json:"article_id"`
	ArticleTitle string `json:"article_title,omitempty"`
	TimeLimit    int    `json:"time_limit,omitempty"`
	PassingScore int    `json:"passing_score"`
}

// Summarize projects the quiz to its cached list shape.
func (q Quiz) Summarize() QuizSummary {
	return QuizSummary{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		ArticleID:    q.ArticleID,
		ArticleTitle: q.ArticleTitle,
		TimeLimit:    q.TimeLimit,
		PassingScore: q.PassingScore,
	}
}
