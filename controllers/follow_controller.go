package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// FollowController toggles follow relations and lists follower graphs.
type FollowController struct {
	follows store.FollowStore
	users   store.UserStore
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(follows store.FollowStore, users store.UserStore) *FollowController {
	return &FollowController{follows: follows, users: users}
}

// Toggle follows or unfollows the target user and returns the recomputed
// counts for both sides, so clients never have to keep a local counter.
func (f *FollowController) Toggle(ctx *gin.Context) {
	followerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	followingID := ctx.Param("id")
	if followingID == followerID {
		utils.Error(ctx, http.StatusBadRequest, 40080, "you cannot follow yourself")
		return
	}
	if _, err := f.users.Get(ctx.Request.Context(), followingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Sugar.Errorf("load user failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to get user")
		return
	}

	following, err := f.follows.Toggle(ctx.Request.Context(), followerID, followingID)
	if err != nil {
		if errors.Is(err, store.ErrWriteRejected) {
			utils.Error(ctx, http.StatusBadRequest, 40080, "you cannot follow yourself")
			return
		}
		utils.Sugar.Errorf("toggle follow failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to toggle follow")
		return
	}

	targetFollowers, _, err := f.follows.Counts(ctx.Request.Context(), followingID)
	if err != nil {
		utils.Sugar.Errorf("follow counts failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to count follows")
		return
	}
	_, ownFollowing, err := f.follows.Counts(ctx.Request.Context(), followerID)
	if err != nil {
		utils.Sugar.Errorf("follow counts failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to count follows")
		return
	}

	utils.Success(ctx, gin.H{
		"following":       following,
		"followers_count": targetFollowers,
		"following_count": ownFollowing,
	})
}

// Status reports whether the authenticated user follows the target user.
func (f *FollowController) Status(ctx *gin.Context) {
	followerID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	following, err := f.follows.Status(ctx.Request.Context(), followerID, ctx.Param("id"))
	if err != nil {
		utils.Sugar.Errorf("follow status failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to get follow status")
		return
	}
	utils.Success(ctx, gin.H{"following": following})
}

// Followers lists who follows the given user.
func (f *FollowController) Followers(ctx *gin.Context) {
	rels, err := f.follows.Followers(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Sugar.Errorf("list followers failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to fetch followers")
		return
	}
	utils.Success(ctx, gin.H{"items": rels})
}

// Following lists who the given user follows.
func (f *FollowController) Following(ctx *gin.Context) {
	rels, err := f.follows.Following(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Sugar.Errorf("list following failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to fetch following")
		return
	}
	utils.Success(ctx, gin.H{"items": rels})
}

// Counts returns follower/following totals for the given user.
func (f *FollowController) Counts(ctx *gin.Context) {
	followers, following, err := f.follows.Counts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Sugar.Errorf("follow counts failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to count follows")
		return
	}
	utils.Success(ctx, gin.H{
		"followers_count": followers,
		"following_count": following,
	})
}
