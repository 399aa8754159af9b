package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plumekit/plume/models"
)

type commentStore struct {
	db *gorm.DB
}

// NewCommentStore creates a gorm-backed CommentStore.
func NewCommentStore(db *gorm.DB) CommentStore {
	return &commentStore{db: db}
}

// ListByArticle returns an article's comments oldest-first so the thread
// reads chronologically.
func (s *commentStore) ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, opError("failed to fetch comments", err)
	}
	return comments, nil
}

func (s *commentStore) Create(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return opError("failed to create comment", err)
	}
	return nil
}

func (s *commentStore) Update(ctx context.Context, id, userID, content string) (*models.Comment, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if res.Error != nil {
		return nil, opError("failed to update comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.rejectOrMissing(ctx, id)
	}

	var comment models.Comment
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, opError("failed to fetch comment", err)
	}
	return &comment, nil
}

func (s *commentStore) Delete(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return opError("failed to delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.rejectOrMissing(ctx, id)
	}
	return nil
}

func (s *commentStore) rejectOrMissing(ctx context.Context, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return opError("failed to fetch comment", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrWriteRejected
}
