package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite bookmarks an article for a user. Unlike likes there is no stored
// counter; counts are derived from rows when needed.
type Favorite struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_article" json:"user_id"`
	ArticleID string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
	Article   *Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
