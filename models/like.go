package models

import "time"

// Like marks that a user liked an article. The composite primary key keeps at
// most one row per (article, user) pair.
type Like struct {
	ArticleID string    `gorm:"type:uuid;primaryKey" json:"article_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
