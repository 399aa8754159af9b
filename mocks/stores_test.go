package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/store"
)

func TestLikeToggleMatchesRowCount(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserStore()
	articles := NewMockArticleStore(users)
	likes := NewMockLikeStore(articles)

	article := models.Article{UserID: "author", Content: "x"}
	require.NoError(t, articles.Create(ctx, &article))

	// Toggling twice always lands back where it started.
	liked, count, err := likes.Toggle(ctx, article.ID, "reader")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = likes.Toggle(ctx, article.ID, "reader")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)

	// The denormalized counter follows the rows.
	for _, reader := range []string{"a", "b", "c"} {
		_, _, err := likes.Toggle(ctx, article.ID, reader)
		require.NoError(t, err)
	}
	got, err := articles.Get(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Likes)

	rows, err := likes.Count(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Likes, rows)
}

func TestLikeToggleMissingArticle(t *testing.T) {
	likes := NewMockLikeStore(NewMockArticleStore(NewMockUserStore()))

	_, _, err := likes.Toggle(context.Background(), "missing", "reader")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFavoriteNeverDuplicates(t *testing.T) {
	ctx := context.Background()
	favorites := NewMockFavoriteStore(nil)

	for i := 0; i < 5; i++ {
		_, err := favorites.Toggle(ctx, "article-1", "user-1")
		require.NoError(t, err)
	}

	// An odd number of toggles leaves exactly one row, never more.
	list, err := favorites.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestArticleOrderingAndPagination(t *testing.T) {
	ctx := context.Background()
	articles := NewMockArticleStore(nil)

	var ids []string
	for _, content := range []string{"a", "b", "c", "d", "e"} {
		art := models.Article{UserID: "u", Content: content}
		require.NoError(t, articles.Create(ctx, &art))
		ids = append(ids, art.ID)
	}

	page1, total, err := articles.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, ids[4], page1[0].ID)
	assert.Equal(t, ids[3], page1[1].ID)

	page3, _, err := articles.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, ids[0], page3[0].ID)

	beyond, _, err := articles.List(ctx, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	comments := NewMockCommentStore(nil)

	for _, content := range []string{"first", "second", "third"} {
		c := models.Comment{ArticleID: "art", UserID: "u", Content: content}
		require.NoError(t, comments.Create(ctx, &c))
	}

	list, err := comments.ListByArticle(ctx, "art")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "third", list[2].Content)
}

func TestOwnershipEnforcement(t *testing.T) {
	ctx := context.Background()
	articles := NewMockArticleStore(nil)

	art := models.Article{UserID: "owner", Content: "mine"}
	require.NoError(t, articles.Create(ctx, &art))

	_, err := articles.Update(ctx, art.ID, "intruder", "stolen")
	assert.ErrorIs(t, err, store.ErrWriteRejected)

	err = articles.Delete(ctx, art.ID, "intruder")
	assert.ErrorIs(t, err, store.ErrWriteRejected)

	// The article is untouched.
	got, err := articles.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Content)

	_, err = articles.Update(ctx, "missing", "owner", "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSelfFollowRejected(t *testing.T) {
	follows := NewMockFollowStore(nil)

	_, err := follows.Toggle(context.Background(), "user-1", "user-1")
	assert.ErrorIs(t, err, store.ErrWriteRejected)

	followers, following, err := follows.Counts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, followers)
	assert.Zero(t, following)
}

func TestFollowCountsRecomputed(t *testing.T) {
	ctx := context.Background()
	follows := NewMockFollowStore(nil)

	for _, follower := range []string{"a", "b", "c"} {
		_, err := follows.Toggle(ctx, follower, "target")
		require.NoError(t, err)
	}
	_, err := follows.Toggle(ctx, "b", "target")
	require.NoError(t, err)

	followers, _, err := follows.Counts(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)
}
