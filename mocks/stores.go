// Package mocks provides in-memory implementations of the store interfaces
// for handler and session tests. They mirror the gorm-backed stores' ordering
// and error semantics so tests exercise the same contracts.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/store"
)

// MockUserStore is an in-memory store.UserStore.
type MockUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]models.User)}
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.ID] = *user
	return nil
}

// MockCredentialStore is an in-memory store.CredentialStore.
type MockCredentialStore struct {
	mu    sync.Mutex
	creds map[string]models.Credential
}

func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{creds: make(map[string]models.Credential)}
}

func (m *MockCredentialStore) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.creds {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockCredentialStore) Create(ctx context.Context, cred *models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now()
	}
	m.creds[cred.ID] = *cred
	return nil
}

// MockArticleStore is an in-memory store.ArticleStore. Users may be set so
// listings embed author profiles the way Preload does.
type MockArticleStore struct {
	mu       sync.Mutex
	articles map[string]models.Article
	Users    *MockUserStore
	seq      int
}

func NewMockArticleStore(users *MockUserStore) *MockArticleStore {
	return &MockArticleStore{articles: make(map[string]models.Article), Users: users}
}

func (m *MockArticleStore) author(userID string) *models.User {
	if m.Users == nil {
		return nil
	}
	u, err := m.Users.Get(context.Background(), userID)
	if err != nil {
		return nil
	}
	return u
}

func (m *MockArticleStore) sorted() []models.Article {
	out := make([]models.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MockArticleStore) List(ctx context.Context, page, pageSize int) ([]models.Article, int64, error) {
	m.mu.Lock()
	all := m.sorted()
	m.mu.Unlock()
	total := int64(len(all))
	out := paginate(all, page, pageSize)
	for i := range out {
		out[i].Author = m.author(out[i].UserID)
	}
	return out, total, nil
}

func (m *MockArticleStore) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Article, int64, error) {
	m.mu.Lock()
	var all []models.Article
	for _, a := range m.sorted() {
		if a.UserID == userID {
			all = append(all, a)
		}
	}
	m.mu.Unlock()
	total := int64(len(all))
	out := paginate(all, page, pageSize)
	for i := range out {
		out[i].Author = m.author(out[i].UserID)
	}
	return out, total, nil
}

func (m *MockArticleStore) Get(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	a, ok := m.articles[id]
	m.mu.Unlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Author = m.author(a.UserID)
	return &a, nil
}

func (m *MockArticleStore) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		// Spread creation times so newest-first ordering is deterministic.
		m.seq++
		article.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	}
	article.UpdatedAt = article.CreatedAt
	m.articles[article.ID] = *article
	return nil
}

func (m *MockArticleStore) Update(ctx context.Context, id, userID, content string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if a.UserID != userID {
		return nil, store.ErrWriteRejected
	}
	a.Content = content
	a.UpdatedAt = time.Now()
	m.articles[id] = a
	return &a, nil
}

func (m *MockArticleStore) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return store.ErrNotFound
	}
	if a.UserID != userID {
		return store.ErrWriteRejected
	}
	delete(m.articles, id)
	return nil
}

// MockCommentStore is an in-memory store.CommentStore.
type MockCommentStore struct {
	mu       sync.Mutex
	comments map[string]models.Comment
	Users    *MockUserStore
	seq      int
}

func NewMockCommentStore(users *MockUserStore) *MockCommentStore {
	return &MockCommentStore{comments: make(map[string]models.Comment), Users: users}
}

func (m *MockCommentStore) ListByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	m.mu.Lock()
	var out []models.Comment
	for _, c := range m.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if m.Users != nil {
		for i := range out {
			if u, err := m.Users.Get(ctx, out[i].UserID); err == nil {
				out[i].Author = u
			}
		}
	}
	return out, nil
}

func (m *MockCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		m.seq++
		comment.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	}
	comment.UpdatedAt = comment.CreatedAt
	m.comments[comment.ID] = *comment
	return nil
}

func (m *MockCommentStore) Update(ctx context.Context, id, userID, content string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if c.UserID != userID {
		return nil, store.ErrWriteRejected
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	m.comments[id] = c
	return &c, nil
}

func (m *MockCommentStore) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return store.ErrNotFound
	}
	if c.UserID != userID {
		return store.ErrWriteRejected
	}
	delete(m.comments, id)
	return nil
}

type likeKey struct {
	articleID string
	userID    string
}

// MockLikeStore is an in-memory store.LikeStore. When Articles is set, Toggle
// rewrites the denormalized counter on the article row like the gorm store.
type MockLikeStore struct {
	mu       sync.Mutex
	likes    map[likeKey]time.Time
	Articles *MockArticleStore
}

func NewMockLikeStore(articles *MockArticleStore) *MockLikeStore {
	return &MockLikeStore{likes: make(map[likeKey]time.Time), Articles: articles}
}

func (m *MockLikeStore) Toggle(ctx context.Context, articleID, userID string) (bool, int64, error) {
	if m.Articles != nil {
		if _, err := m.Articles.Get(ctx, articleID); err != nil {
			return false, 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := likeKey{articleID, userID}
	_, exists := m.likes[key]
	if exists {
		delete(m.likes, key)
	} else {
		m.likes[key] = time.Now()
	}
	count := m.countLocked(articleID)
	if m.Articles != nil {
		m.Articles.mu.Lock()
		if a, ok := m.Articles.articles[articleID]; ok {
			a.Likes = count
			m.Articles.articles[articleID] = a
		}
		m.Articles.mu.Unlock()
	}
	return !exists, count, nil
}

func (m *MockLikeStore) countLocked(articleID string) int64 {
	var n int64
	for k := range m.likes {
		if k.articleID == articleID {
			n++
		}
	}
	return n
}

func (m *MockLikeStore) Status(ctx context.Context, articleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[likeKey{articleID, userID}]
	return ok, nil
}

func (m *MockLikeStore) Count(ctx context.Context, articleID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(articleID), nil
}

// MockFavoriteStore is an in-memory store.FavoriteStore.
type MockFavoriteStore struct {
	mu        sync.Mutex
	favorites map[likeKey]models.Favorite
	Articles  *MockArticleStore
}

func NewMockFavoriteStore(articles *MockArticleStore) *MockFavoriteStore {
	return &MockFavoriteStore{favorites: make(map[likeKey]models.Favorite), Articles: articles}
}

func (m *MockFavoriteStore) Toggle(ctx context.Context, articleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := likeKey{articleID, userID}
	if _, ok := m.favorites[key]; ok {
		delete(m.favorites, key)
		return false, nil
	}
	m.favorites[key] = models.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ArticleID: articleID,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (m *MockFavoriteStore) Status(ctx context.Context, articleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.favorites[likeKey{articleID, userID}]
	return ok, nil
}

func (m *MockFavoriteStore) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	m.mu.Lock()
	var out []models.Favorite
	for _, f := range m.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if m.Articles != nil {
		for i := range out {
			if a, err := m.Articles.Get(ctx, out[i].ArticleID); err == nil {
				out[i].Article = a
			}
		}
	}
	return out, nil
}

type followKey struct {
	followerID  string
	followingID string
}

// MockFollowStore is an in-memory store.FollowStore.
type MockFollowStore struct {
	mu      sync.Mutex
	follows map[followKey]models.Follow
	Users   *MockUserStore
}

func NewMockFollowStore(users *MockUserStore) *MockFollowStore {
	return &MockFollowStore{follows: make(map[followKey]models.Follow), Users: users}
}

func (m *MockFollowStore) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, store.ErrWriteRejected
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := followKey{followerID, followingID}
	if _, ok := m.follows[key]; ok {
		delete(m.follows, key)
		return false, nil
	}
	m.follows[key] = models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	return true, nil
}

func (m *MockFollowStore) Status(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.follows[followKey{followerID, followingID}]
	return ok, nil
}

func (m *MockFollowStore) Followers(ctx context.Context, userID string) ([]models.Follow, error) {
	m.mu.Lock()
	var out []models.Follow
	for _, f := range m.follows {
		if f.FollowingID == userID {
			out = append(out, f)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if m.Users != nil {
		for i := range out {
			if u, err := m.Users.Get(ctx, out[i].FollowerID); err == nil {
				out[i].Follower = u
			}
		}
	}
	return out, nil
}

func (m *MockFollowStore) Following(ctx context.Context, userID string) ([]models.Follow, error) {
	m.mu.Lock()
	var out []models.Follow
	for _, f := range m.follows {
		if f.FollowerID == userID {
			out = append(out, f)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if m.Users != nil {
		for i := range out {
			if u, err := m.Users.Get(ctx, out[i].FollowingID); err == nil {
				out[i].Following = u
			}
		}
	}
	return out, nil
}

func (m *MockFollowStore) Counts(ctx context.Context, userID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var followers, following int64
	for k := range m.follows {
		if k.followingID == userID {
			followers++
		}
		if k.followerID == userID {
			following++
		}
	}
	return followers, following, nil
}

// MockStatsStore is an in-memory store.StatsStore over the other mocks.
type MockStatsStore struct {
	Users    *MockUserStore
	Articles *MockArticleStore
	Comments *MockCommentStore
	Likes    *MockLikeStore
}

func (m *MockStatsStore) Totals(ctx context.Context) (store.Totals, error) {
	var t store.Totals
	if m.Users != nil {
		m.Users.mu.Lock()
		t.Users = int64(len(m.Users.users))
		m.Users.mu.Unlock()
	}
	if m.Articles != nil {
		m.Articles.mu.Lock()
		t.Articles = int64(len(m.Articles.articles))
		m.Articles.mu.Unlock()
	}
	if m.Comments != nil {
		m.Comments.mu.Lock()
		t.Comments = int64(len(m.Comments.comments))
		m.Comments.mu.Unlock()
	}
	if m.Likes != nil {
		m.Likes.mu.Lock()
		t.Likes = int64(len(m.Likes.likes))
		m.Likes.mu.Unlock()
	}
	return t, nil
}

// NewStores wires a full in-memory store bundle for tests.
func NewStores() *store.Stores {
	users := NewMockUserStore()
	articles := NewMockArticleStore(users)
	comments := NewMockCommentStore(users)
	likes := NewMockLikeStore(articles)
	return &store.Stores{
		Users:       users,
		Credentials: NewMockCredentialStore(),
		Articles:    articles,
		Comments:    comments,
		Likes:       likes,
		Favorites:   NewMockFavoriteStore(articles),
		Follows:     NewMockFollowStore(users),
		Stats:       &MockStatsStore{Users: users, Articles: articles, Comments: comments, Likes: likes},
	}
}

func paginate(in []models.Article, page, pageSize int) []models.Article {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= len(in) {
		return []models.Article{}
	}
	end := start + pageSize
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}
