package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plumekit/plume/models"
)

type credentialStore struct {
	db *gorm.DB
}

// NewCredentialStore creates a gorm-backed CredentialStore.
func NewCredentialStore(db *gorm.DB) CredentialStore {
	return &credentialStore{db: db}
}

func (s *credentialStore) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, opError("failed to fetch credential", err)
	}
	return &cred, nil
}

func (s *credentialStore) Create(ctx context.Context, cred *models.Credential) error {
	if err := s.db.WithContext(ctx).Create(cred).Error; err != nil {
		return opError("failed to create credential", err)
	}
	return nil
}
