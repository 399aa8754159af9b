package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plumekit/plume/models"
)

type articleStore struct {
	db *gorm.DB
}

// NewArticleStore creates a gorm-backed ArticleStore.
func NewArticleStore(db *gorm.DB) ArticleStore {
	return &articleStore{db: db}
}

func (s *articleStore) List(ctx context.Context, page, pageSize int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	q := s.db.WithContext(ctx).Model(&models.Article{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, opError("failed to count articles", err)
	}
	err := q.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, opError("failed to fetch articles", err)
	}
	return articles, total, nil
}

func (s *articleStore) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	q := s.db.WithContext(ctx).Model(&models.Article{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, opError("failed to count user articles", err)
	}
	err := q.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, opError("failed to fetch user articles", err)
	}
	return articles, total, nil
}

func (s *articleStore) Get(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, opError("failed to fetch article", err)
	}
	return &article, nil
}

func (s *articleStore) Create(ctx context.Context, article *models.Article) error {
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return opError("failed to create article", err)
	}
	return nil
}

// Update rewrites the content of an article owned by userID. A row owned by
// someone else is reported as ErrWriteRejected, never silently modified.
func (s *articleStore) Update(ctx context.Context, id, userID, content string) (*models.Article, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if res.Error != nil {
		return nil, opError("failed to update article", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.rejectOrMissing(ctx, id)
	}
	return s.Get(ctx, id)
}

func (s *articleStore) Delete(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Article{})
	if res.Error != nil {
		return opError("failed to delete article", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.rejectOrMissing(ctx, id)
	}
	return nil
}

// rejectOrMissing distinguishes a row that never existed from one the caller
// does not own.
func (s *articleStore) rejectOrMissing(ctx context.Context, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return opError("failed to fetch article", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrWriteRejected
}
