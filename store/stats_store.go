package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/plumekit/plume/models"
)

type statsStore struct {
	db *gorm.DB
}

// NewStatsStore creates a gorm-backed StatsStore.
func NewStatsStore(db *gorm.DB) StatsStore {
	return &statsStore{db: db}
}

// Totals counts each entity. A failing count falls back to zero instead of
// failing the whole set.
func (s *statsStore) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&t.Users).Error; err != nil {
		t.Users = 0
	}
	if err := db.Model(&models.Article{}).Count(&t.Articles).Error; err != nil {
		t.Articles = 0
	}
	if err := db.Model(&models.Comment{}).Count(&t.Comments).Error; err != nil {
		t.Comments = 0
	}
	if err := db.Model(&models.Like{}).Count(&t.Likes).Error; err != nil {
		t.Likes = 0
	}
	return t, nil
}
