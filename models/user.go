package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the public profile row for an account. It is provisioned the first
// time an authenticated identity is seen, which may lag behind the credential
// (see session.Store).
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:64" json:"firstname,omitempty"`
	LastName  string    `gorm:"size:64" json:"lastname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a uuid when the caller has not provided one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}
