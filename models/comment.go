package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to an article. Content must be non-empty; listings are
// oldest-first for chronological reading.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID string    `gorm:"type:uuid;index;not null" json:"article_id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
