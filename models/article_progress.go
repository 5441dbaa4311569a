package models

import "time"

// ArticleProgress records per-user reading state. At most one row exists per
// (user, article) pair; writes go through an upsert.
type ArticleProgress struct {
	UserID     string    `json:"user_id" gorm:"primaryKey"`
	ArticleID  string    `json:"article_id" gorm:"primaryKey"`
	Completed  bool      `json:"completed" gorm:"not null;default:false"`
	LastReadAt time.Time `json:"last_read_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ArticleProgress) TableName() string {
	return "user_article_progress"
}
