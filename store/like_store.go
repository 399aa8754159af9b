package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumekit/plume/models"
)

type likeStore struct {
	db *gorm.DB
}

// NewLikeStore creates a gorm-backed LikeStore.
func NewLikeStore(db *gorm.DB) LikeStore {
	return &likeStore{db: db}
}

// Toggle likes the article for the user if no like row exists, otherwise
// unlikes it. Insert/delete, recount and the counter write all happen in one
// transaction, so articles.likes always equals the committed row count.
func (s *likeStore) Toggle(ctx context.Context, articleID, userID string) (bool, int64, error) {
	var liked bool
	var count int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("article_id = ? AND user_id = ?", articleID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("article_id = ? AND user_id = ?", articleID, userID).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.Like{ArticleID: articleID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		if err := tx.Model(&models.Like{}).Where("article_id = ?", articleID).Count(&count).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Article{}).Where("id = ?", articleID).Update("likes", count)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, 0, ErrNotFound
		}
		return false, 0, opError("failed to toggle like", err)
	}
	return liked, count, nil
}

// Status reports whether the user liked the article. Absence is a normal
// false, not an error.
func (s *likeStore) Status(ctx context.Context, articleID, userID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&n).Error
	if err != nil {
		return false, opError("failed to get like status", err)
	}
	return n > 0, nil
}

func (s *likeStore) Count(ctx context.Context, articleID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("article_id = ?", articleID).
		Count(&n).Error
	if err != nil {
		return 0, opError("failed to get likes count", err)
	}
	return n, nil
}
