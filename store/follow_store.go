package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumekit/plume/models"
)

type followStore struct {
	db *gorm.DB
}

// NewFollowStore creates a gorm-backed FollowStore.
func NewFollowStore(db *gorm.DB) FollowStore {
	return &followStore{db: db}
}

// Toggle follows the target user if no relation exists, unfollows otherwise.
// Self-follow is rejected.
func (s *followStore) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrWriteRejected
	}

	var following bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
				Delete(&models.Follow{}).Error; err != nil {
				return err
			}
			following = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			rel := models.Follow{FollowerID: followerID, FollowingID: followingID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel).Error; err != nil {
				return err
			}
			following = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, opError("failed to toggle follow", err)
	}
	return following, nil
}

func (s *followStore) Status(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	if err != nil {
		return false, opError("failed to get follow status", err)
	}
	return n > 0, nil
}

// Followers returns who follows userID, newest-first, with the follower
// profile embedded.
func (s *followStore) Followers(ctx context.Context, userID string) ([]models.Follow, error) {
	var rels []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&rels).Error
	if err != nil {
		return nil, opError("failed to fetch followers", err)
	}
	return rels, nil
}

// Following returns who userID follows, newest-first, with the followed
// profile embedded.
func (s *followStore) Following(ctx context.Context, userID string) ([]models.Follow, error) {
	var rels []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Following").
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&rels).Error
	if err != nil {
		return nil, opError("failed to fetch following", err)
	}
	return rels, nil
}

// Counts recomputes follower/following totals from rows.
func (s *followStore) Counts(ctx context.Context, userID string) (int64, int64, error) {
	var followers, following int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, opError("failed to count followers", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, opError("failed to count following", err)
	}
	return followers, following, nil
}
