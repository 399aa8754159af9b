package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumekit/plume/config"
	"github.com/plumekit/plume/mocks"
	"github.com/plumekit/plume/session"
	"github.com/plumekit/plume/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "router-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})
	os.Exit(m.Run())
}

func newTestRouter() *gin.Engine {
	st := mocks.NewStores()
	sessions := session.New(st.Credentials, st.Users)
	return Setup(st, sessions)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func register(t *testing.T, r *gin.Engine, email string) (userID, token string) {
	t.Helper()

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     email,
		"password":  "secret123",
		"firstname": "Test",
		"lastname":  "User",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.User.ID)
	return data.User.ID, data.Token
}

func createArticle(t *testing.T, r *gin.Engine, token, content string) string {
	t.Helper()

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/articles", token, gin.H{"content": content})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var data struct {
		Article struct {
			ID string `json:"id"`
		} `json:"article"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Article.ID)
	return data.Article.ID
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	w, env := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter()
	userID, token := register(t, r, "alice@example.com")

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	// Duplicate registration is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct password.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterWeakPassword(t *testing.T) {
	r := newTestRouter()
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "short@example.com",
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter()
	_, token := register(t, r, "logout@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestArticleLifecycle(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "author@example.com")
	_, tokenB := register(t, r, "reader@example.com")

	id := createArticle(t, r, tokenA, "hello world")

	// Listed with the author embedded.
	w, env := doJSON(t, r, http.MethodGet, "/api/v1/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID     string `json:"id"`
			Author *struct {
				Email string `json:"email"`
			} `json:"author"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, id, list.Items[0].ID)
	require.NotNil(t, list.Items[0].Author)
	assert.Equal(t, "author@example.com", list.Items[0].Author.Email)

	// Only the author may update.
	w, _ = doJSON(t, r, http.MethodPut, "/api/v1/articles/"+id, tokenB, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, r, http.MethodPut, "/api/v1/articles/"+id, tokenA, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Article struct {
			Content string `json:"content"`
		} `json:"article"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "edited", updated.Article.Content)

	// Only the author may delete.
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/articles/"+id, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/articles/"+id, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/articles/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticleListNewestFirst(t *testing.T) {
	r := newTestRouter()
	_, token := register(t, r, "orderly@example.com")

	first := createArticle(t, r, token, "first")
	second := createArticle(t, r, token, "second")
	third := createArticle(t, r, token, "third")

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 3)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, third, list.Items[0].ID)
	assert.Equal(t, second, list.Items[1].ID)
	assert.Equal(t, first, list.Items[2].ID)
}

func TestArticleContentSanitized(t *testing.T) {
	r := newTestRouter()
	_, token := register(t, r, "sanitize@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/articles", token, gin.H{
		"content": `hello <script>alert("x")</script>world`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Article struct {
			Content string `json:"content"`
		} `json:"article"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotContains(t, data.Article.Content, "<script>")
}

func TestCommentFlow(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "poster@example.com")
	_, tokenB := register(t, r, "commenter@example.com")

	articleID := createArticle(t, r, tokenA, "discuss")

	for _, content := range []string{"one", "two", "three"} {
		w, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/comments", articleID), tokenB, gin.H{"content": content})
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Oldest first.
	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/articles/%s/comments", articleID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 3)
	assert.Equal(t, "one", list.Items[0].Content)
	assert.Equal(t, "three", list.Items[2].Content)

	// Commenting on a missing article fails.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/articles/does-not-exist/comments", tokenB, gin.H{"content": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the comment author may edit or delete.
	commentID := list.Items[0].ID
	w, _ = doJSON(t, r, http.MethodPut, "/api/v1/comments/"+commentID, tokenA, gin.H{"content": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/comments/"+commentID, tokenB, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/articles/%s/comments", articleID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Items, 2)
}

func TestLikeToggle(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "liked@example.com")
	_, tokenB := register(t, r, "liker@example.com")

	articleID := createArticle(t, r, tokenA, "like me")

	var toggled struct {
		Liked bool  `json:"liked"`
		Likes int64 `json:"likes"`
	}

	w, env := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/like", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.Liked)
	assert.Equal(t, int64(1), toggled.Likes)

	// The stored counter matches the row count.
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Article struct {
			Likes int64 `json:"likes"`
		} `json:"article"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, int64(1), detail.Article.Likes)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/articles/%s/like/status", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Liked bool `json:"liked"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Liked)

	// Second toggle removes the like and the counter returns to zero.
	w, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/like", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.Liked)
	assert.Equal(t, int64(0), toggled.Likes)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/articles/%s/like/count", articleID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, int64(0), count.Count)

	// Liking a missing article fails.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/articles/does-not-exist/like", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteFlow(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "writer@example.com")
	_, tokenB := register(t, r, "collector@example.com")

	articleID := createArticle(t, r, tokenA, "bookmark me")

	var toggled struct {
		Favorited bool `json:"favorited"`
	}
	w, env := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/favorite", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.Favorited)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/users/me/favorites", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ArticleID string `json:"article_id"`
			Article   *struct {
				Content string `json:"content"`
			} `json:"article"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, articleID, list.Items[0].ArticleID)
	require.NotNil(t, list.Items[0].Article)
	assert.Equal(t, "bookmark me", list.Items[0].Article.Content)

	// Toggling again removes the bookmark.
	w, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/favorite", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.Favorited)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/users/me/favorites", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Items)
}

func TestFollowFlow(t *testing.T) {
	r := newTestRouter()
	idA, tokenA := register(t, r, "follower@example.com")
	idB, _ := register(t, r, "followed@example.com")

	var toggled struct {
		Following      bool  `json:"following"`
		FollowersCount int64 `json:"followers_count"`
		FollowingCount int64 `json:"following_count"`
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/users/"+idB+"/follow", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.Following)
	assert.Equal(t, int64(1), toggled.FollowersCount)
	assert.Equal(t, int64(1), toggled.FollowingCount)

	// The target's followers listing embeds the follower profile.
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/users/"+idB+"/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var followers struct {
		Items []struct {
			FollowerID string `json:"follower_id"`
			Follower   *struct {
				Email string `json:"email"`
			} `json:"follower"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &followers))
	require.Len(t, followers.Items, 1)
	assert.Equal(t, idA, followers.Items[0].FollowerID)
	require.NotNil(t, followers.Items[0].Follower)
	assert.Equal(t, "follower@example.com", followers.Items[0].Follower.Email)

	// Unfollow returns both counts to zero.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/users/"+idB+"/follow", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.Following)
	assert.Equal(t, int64(0), toggled.FollowersCount)
	assert.Equal(t, int64(0), toggled.FollowingCount)
}

func TestSelfFollowRejected(t *testing.T) {
	r := newTestRouter()
	idA, tokenA := register(t, r, "narcissus@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/users/"+idA+"/follow", tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowMissingUser(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "lonely@example.com")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/users/does-not-exist/follow", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/articles"},
		{http.MethodPut, "/api/v1/articles/x"},
		{http.MethodDelete, "/api/v1/articles/x"},
		{http.MethodPost, "/api/v1/articles/x/like"},
		{http.MethodPost, "/api/v1/articles/x/favorite"},
		{http.MethodGet, "/api/v1/users/me/favorites"},
		{http.MethodPost, "/api/v1/users/x/follow"},
	} {
		w, _ := doJSON(t, r, tc.method, tc.path, "", gin.H{"content": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestStats(t *testing.T) {
	r := newTestRouter()
	_, tokenA := register(t, r, "stats-a@example.com")
	_, tokenB := register(t, r, "stats-b@example.com")

	articleID := createArticle(t, r, tokenA, "count me")
	w, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/comments", articleID), tokenB, gin.H{"content": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/articles/%s/like", articleID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var totals struct {
		Users    int64 `json:"user_count"`
		Articles int64 `json:"article_count"`
		Comments int64 `json:"comment_count"`
		Likes    int64 `json:"like_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &totals))
	assert.Equal(t, int64(2), totals.Users)
	assert.Equal(t, int64(1), totals.Articles)
	assert.Equal(t, int64(1), totals.Comments)
	assert.Equal(t, int64(1), totals.Likes)
}
