package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// FavoriteController toggles and lists article bookmarks.
type FavoriteController struct {
	favorites store.FavoriteStore
	articles  store.ArticleStore
}

// NewFavoriteController creates a new FavoriteController instance.
func NewFavoriteController(favorites store.FavoriteStore, articles store.ArticleStore) *FavoriteController {
	return &FavoriteController{favorites: favorites, articles: articles}
}

// Toggle adds or removes the article from the authenticated user's favorites.
func (f *FavoriteController) Toggle(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID := ctx.Param("id")
	if _, err := f.articles.Get(ctx.Request.Context(), articleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Sugar.Errorf("load article failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to fetch article")
		return
	}

	favorited, err := f.favorites.Toggle(ctx.Request.Context(), articleID, userID)
	if err != nil {
		utils.Sugar.Errorf("toggle favorite failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to toggle favorite")
		return
	}
	utils.Success(ctx, gin.H{"favorited": favorited})
}

// Status reports whether the authenticated user favorited the article.
func (f *FavoriteController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	favorited, err := f.favorites.Status(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		utils.Sugar.Errorf("favorite status failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to get favorite status")
		return
	}
	utils.Success(ctx, gin.H{"favorited": favorited})
}

// ListMine returns the authenticated user's favorites with the articles
// embedded.
func (f *FavoriteController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	favorites, err := f.favorites.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorf("list favorites failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to fetch favorites")
		return
	}
	utils.Success(ctx, gin.H{"items": favorites})
}
