package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is a short post authored by a user. Likes is a denormalized counter
// kept equal to the number of like rows; it is only ever rewritten inside the
// same transaction that changes the rows (store.LikeStore).
type Article struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
