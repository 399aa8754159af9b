package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumekit/plume/middleware"
	"github.com/plumekit/plume/session"
	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// AuthController handles registration, login, logout and the current-user
// endpoint.
type AuthController struct {
	sessions *session.Store
	users    store.UserStore
}

// NewAuthController creates an AuthController.
func NewAuthController(sessions *session.Store, users store.UserStore) *AuthController {
	return &AuthController{sessions: sessions, users: users}
}

// Register creates a new account and issues a JWT.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, token, err := a.sessions.Signup(ctx.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrWeakPassword):
			utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
		case errors.Is(err, session.ErrEmailTaken):
			utils.Error(ctx, http.StatusConflict, 40901, err.Error())
		default:
			utils.Sugar.Errorf("signup failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		}
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, token, err := a.sessions.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
			return
		}
		utils.Sugar.Errorf("login failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to log in")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	if err := a.sessions.Logout(token); err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := a.users.Get(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Sugar.Errorf("load current user failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to load user")
		return
	}
	utils.Success(ctx, user)
}

// GetUser returns a public profile by id.
func (a *AuthController) GetUser(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing user id")
		return
	}

	user, err := a.users.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Sugar.Errorf("load user failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to get user")
		return
	}
	utils.Success(ctx, user)
}
