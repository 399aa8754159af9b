package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// LikeController toggles likes on articles and reports status and counts.
type LikeController struct {
	likes store.LikeStore
}

// NewLikeController creates a new LikeController instance.
func NewLikeController(likes store.LikeStore) *LikeController {
	return &LikeController{likes: likes}
}

// Toggle likes or unlikes the article for the authenticated user and returns
// the fresh counter value.
func (l *LikeController) Toggle(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID := ctx.Param("id")
	liked, count, err := l.likes.Toggle(ctx.Request.Context(), articleID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Sugar.Errorf("toggle like failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to toggle like")
		return
	}

	utils.InvalidateByPrefix("cache:articles:list:")
	utils.InvalidateByPrefix("cache:article:detail:" + articleID)

	utils.Success(ctx, gin.H{"liked": liked, "likes": count})
}

// Status reports whether the authenticated user liked the article.
func (l *LikeController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	liked, err := l.likes.Status(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		utils.Sugar.Errorf("like status failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to get like status")
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}

// Count returns the number of like rows for the article.
func (l *LikeController) Count(ctx *gin.Context) {
	count, err := l.likes.Count(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Sugar.Errorf("likes count failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to get likes count")
		return
	}
	utils.Success(ctx, gin.H{"count": count})
}
