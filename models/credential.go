package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential is the authentication identity behind a profile. Passwords are
// stored as bcrypt hashes only. FirstName/LastName carry the signup-time
// metadata used to provision the profile row on first login.
type Credential struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:64" json:"firstname,omitempty"`
	LastName     string    `gorm:"size:64" json:"lastname,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
