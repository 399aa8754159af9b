// Package store is the data-access layer for the social graph: typed
// operations over users, articles, comments, likes, favorites and follows.
// Write operations take the caller's user id and constrain the affected rows
// with it, so a caller cannot mutate rows they do not own.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/plumekit/plume/models"
)

// UserStore reads and writes profile rows.
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// CredentialStore manages authentication identities.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	Create(ctx context.Context, cred *models.Credential) error
}

// ArticleStore manages articles. Listings are newest-first with the author
// embedded.
type ArticleStore interface {
	List(ctx context.Context, page, pageSize int) ([]models.Article, int64, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Article, int64, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id, userID, content string) (*models.Article, error)
	Delete(ctx context.Context, id, userID string) error
}

// CommentStore manages comments. Listings are oldest-first with the author
// embedded.
type CommentStore interface {
	ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, id, userID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id, userID string) error
}

// LikeStore manages like rows and the denormalized article counter. Toggle
// performs insert/delete, recount and counter write atomically so the counter
// cannot drift from the row count.
type LikeStore interface {
	Toggle(ctx context.Context, articleID, userID string) (liked bool, count int64, err error)
	Status(ctx context.Context, articleID, userID string) (bool, error)
	Count(ctx context.Context, articleID string) (int64, error)
}

// FavoriteStore manages favorite join rows.
type FavoriteStore interface {
	Toggle(ctx context.Context, articleID, userID string) (favorited bool, err error)
	Status(ctx context.Context, articleID, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
}

// FollowStore manages the user-follows-user relation. Counts are always
// recomputed from rows.
type FollowStore interface {
	Toggle(ctx context.Context, followerID, followingID string) (following bool, err error)
	Status(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]models.Follow, error)
	Following(ctx context.Context, userID string) ([]models.Follow, error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)
}

// StatsStore exposes aggregate totals for the stats endpoint.
type StatsStore interface {
	Totals(ctx context.Context) (Totals, error)
}

// Totals are the aggregate entity counts.
type Totals struct {
	Users    int64 `json:"user_count"`
	Articles int64 `json:"article_count"`
	Comments int64 `json:"comment_count"`
	Likes    int64 `json:"like_count"`
}

// Stores bundles all store implementations.
type Stores struct {
	Users       UserStore
	Credentials CredentialStore
	Articles    ArticleStore
	Comments    CommentStore
	Likes       LikeStore
	Favorites   FavoriteStore
	Follows     FollowStore
	Stats       StatsStore
}

// New creates gorm-backed stores on the given database connection.
func New(db *gorm.DB) *Stores {
	return &Stores{
		Users:       NewUserStore(db),
		Credentials: NewCredentialStore(db),
		Articles:    NewArticleStore(db),
		Comments:    NewCommentStore(db),
		Likes:       NewLikeStore(db),
		Favorites:   NewFavoriteStore(db),
		Follows:     NewFollowStore(db),
		Stats:       NewStatsStore(db),
	}
}
