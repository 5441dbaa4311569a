package models

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Body        string         `json:"body" gorm:"not null"`
	Summary     string         `json:"summary"`
	IsPremium   bool           `json:"is_premium" gorm:"not null;default:false"`
	ImageURL    string         `json:"image_url,omitempty"`
	Category    string         `json:"category"`
	ReadingTime int            `json:"reading_time"` // minutes
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ArticleSummary is the lightweight projection stored in the cached article
// list record. Every field is a strict subset of Article; Body is omitted.
type ArticleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	IsPremium   bool   `json:"is_premium"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category"`
	ReadingTime int    `json:"reading_time"`
}

// Summarize projects the article to its cached list shape.
func (a Article) Summarize() ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		IsPremium:   a.IsPremium,
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		ReadingTime: a.ReadingTime,
	}
}
