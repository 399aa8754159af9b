package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// CommentController manages comments on articles.
type CommentController struct {
	comments store.CommentStore
	articles store.ArticleStore
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments store.CommentStore, articles store.ArticleStore) *CommentController {
	return &CommentController{comments: comments, articles: articles}
}

// ListByArticle returns an article's comments oldest-first with authors.
func (c *CommentController) ListByArticle(ctx *gin.Context) {
	articleID := ctx.Param("id")

	comments, err := c.comments.ListByArticle(ctx.Request.Context(), articleID)
	if err != nil {
		utils.Sugar.Errorf("list comments failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to fetch comments")
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}

// Create allows authenticated users to comment on an article.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
		return
	}

	articleID := ctx.Param("id")
	if _, err := c.articles.Get(ctx.Request.Context(), articleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "article not found")
			return
		}
		utils.Sugar.Errorf("load article failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to fetch article")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{ArticleID: articleID, UserID: userID, Content: content}
	if err := c.comments.Create(ctx.Request.Context(), &comment); err != nil {
		utils.Sugar.Errorf("create comment failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:article:detail:" + articleID)

	utils.Success(ctx, gin.H{"comment": comment})
}

// Update allows the comment owner to edit their comment.
func (c *CommentController) Update(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40027, "content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	id := ctx.Param("commentId")
	comment, err := c.comments.Update(ctx.Request.Context(), id, userID, content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
		case errors.Is(err, store.ErrWriteRejected):
			utils.Error(ctx, http.StatusForbidden, 40320, "you can only update your own comments")
		default:
			utils.Sugar.Errorf("update comment failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update comment")
		}
		return
	}

	utils.InvalidateByPrefix("cache:article:detail:" + comment.ArticleID)

	utils.Success(ctx, gin.H{"comment": comment})
}

// Delete allows the comment owner to delete their comment.
func (c *CommentController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	id := strings.TrimSpace(ctx.Param("commentId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40070, "missing comment id")
		return
	}

	if err := c.comments.Delete(ctx.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
		case errors.Is(err, store.ErrWriteRejected):
			utils.Error(ctx, http.StatusForbidden, 40321, "you can only delete your own comments")
		default:
			utils.Sugar.Errorf("delete comment failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to delete comment")
		}
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
