package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumekit/plume/models"
)

type favoriteStore struct {
	db *gorm.DB
}

// NewFavoriteStore creates a gorm-backed FavoriteStore.
func NewFavoriteStore(db *gorm.DB) FavoriteStore {
	return &favoriteStore{db: db}
}

// Toggle adds the article to the user's favorites if absent, removes it
// otherwise. The unique index on (user_id, article_id) guards against
// duplicate rows even under concurrent toggles.
func (s *favoriteStore) Toggle(ctx context.Context, articleID, userID string) (bool, error) {
	var favorited bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Favorite
		err := tx.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("article_id = ? AND user_id = ?", articleID, userID).
				Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			favorited = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			fav := models.Favorite{ArticleID: articleID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
				return err
			}
			favorited = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, opError("failed to toggle favorite", err)
	}
	return favorited, nil
}

func (s *favoriteStore) Status(ctx context.Context, articleID, userID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&n).Error
	if err != nil {
		return false, opError("failed to get favorite status", err)
	}
	return n > 0, nil
}

// ListByUser returns the user's favorites newest-first with the article and
// its author embedded.
func (s *favoriteStore) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Article").
		Preload("Article.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, opError("failed to fetch favorites", err)
	}
	return favorites, nil
}
