package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// ArticleController manages CRUD operations for articles.
type ArticleController struct {
	articles store.ArticleStore
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(articles store.ArticleStore) *ArticleController {
	return &ArticleController{articles: articles}
}

// cacheWrapper mirrors the standard response envelope for cached payloads.
type cacheWrapper struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// List returns paginated articles newest-first including author information.
func (a *ArticleController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("cache:articles:list:page=%d:size=%d", page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	articles, total, err := a.articles.List(ctx.Request.Context(), page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("list articles failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to fetch articles")
		return
	}

	payload := gin.H{
		"items":      articles,
		"pagination": paginationPayload(page, pageSize, total),
	}
	utils.CacheSetJSON(cacheKey, cacheWrapper{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Get returns a single article with its author.
func (a *ArticleController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:article:detail:" + id); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	article, err := a.articles.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Sugar.Errorf("load article failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to fetch article")
		return
	}

	payload := gin.H{"article": article}
	utils.CacheSetJSON("cache:article:detail:"+id, cacheWrapper{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// ListByUser returns a user's articles (public).
func (a *ArticleController) ListByUser(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("id"))
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40060, "missing user id")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	articles, total, err := a.articles.ListByUser(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("list user articles failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to fetch user articles")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      articles,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// ListMine returns articles created by the authenticated user.
func (a *ArticleController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	articles, total, err := a.articles.ListByUser(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.Sugar.Errorf("list own articles failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to fetch user articles")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      articles,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// Create allows authenticated users to post new articles.
func (a *ArticleController) Create(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	article := models.Article{UserID: userID, Content: content}
	if err := a.articles.Create(ctx.Request.Context(), &article); err != nil {
		utils.Sugar.Errorf("create article failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create article")
		return
	}

	utils.InvalidateByPrefix("cache:articles:list:")

	utils.Success(ctx, gin.H{"article": article})
}

// Update allows the author to rewrite their article.
func (a *ArticleController) Update(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, "content cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	id := ctx.Param("id")
	article, err := a.articles.Update(ctx.Request.Context(), id, userID, content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40403, "article not found")
		case errors.Is(err, store.ErrWriteRejected):
			utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own articles")
		default:
			utils.Sugar.Errorf("update article failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update article")
		}
		return
	}

	utils.InvalidateByPrefix("cache:articles:list:")
	utils.InvalidateByPrefix("cache:article:detail:" + id)

	utils.Success(ctx, gin.H{"article": article})
}

// Delete allows the author to delete their article.
func (a *ArticleController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	id := ctx.Param("id")
	if err := a.articles.Delete(ctx.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40404, "article not found")
		case errors.Is(err, store.ErrWriteRejected):
			utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own articles")
		default:
			utils.Sugar.Errorf("delete article failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to delete article")
		}
		return
	}

	utils.InvalidateByPrefix("cache:articles:list:")
	utils.InvalidateByPrefix("cache:article:detail:" + id)

	utils.Success(ctx, gin.H{"message": "article deleted"})
}
