package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumekit/plume/config"
	"github.com/plumekit/plume/controllers"
	"github.com/plumekit/plume/middleware"
	"github.com/plumekit/plume/session"
	"github.com/plumekit/plume/store"
	"github.com/plumekit/plume/utils"
)

// SetupRouter builds gorm-backed stores on db and wires the full engine.
func SetupRouter(db *gorm.DB) *gin.Engine {
	st := store.New(db)
	sessions := session.New(st.Credentials, st.Users)
	return Setup(st, sessions)
}

// Setup wires routes, middlewares, and controllers over the given stores.
func Setup(st *store.Stores, sessions *session.Store) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(sessions, st.Users)
	articleController := controllers.NewArticleController(st.Articles)
	commentController := controllers.NewCommentController(st.Comments, st.Articles)
	likeController := controllers.NewLikeController(st.Likes)
	favoriteController := controllers.NewFavoriteController(st.Favorites, st.Articles)
	followController := controllers.NewFollowController(st.Follows, st.Users)
	statsController := controllers.NewStatsController(st.Stats)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public reads
	api.GET("/articles", articleController.List)
	api.GET("/articles/:id", articleController.Get)
	api.GET("/articles/:id/comments", commentController.ListByArticle)
	api.GET("/articles/:id/like/count", likeController.Count)
	api.GET("/users/:id", authController.GetUser)
	api.GET("/users/:id/articles", articleController.ListByUser)
	api.GET("/users/:id/followers", followController.Followers)
	api.GET("/users/:id/following", followController.Following)
	api.GET("/users/:id/follow/counts", followController.Counts)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/articles", articleController.Create)
	protected.PUT("/articles/:id", articleController.Update)
	protected.DELETE("/articles/:id", articleController.Delete)
	protected.POST("/articles/:id/comments", commentController.Create)
	protected.PUT("/comments/:commentId", commentController.Update)
	protected.DELETE("/comments/:commentId", commentController.Delete)
	protected.POST("/articles/:id/like", likeController.Toggle)
	protected.GET("/articles/:id/like/status", likeController.Status)
	protected.POST("/articles/:id/favorite", favoriteController.Toggle)
	protected.GET("/articles/:id/favorite/status", favoriteController.Status)
	protected.GET("/users/me/articles", articleController.ListMine)
	protected.GET("/users/me/favorites", favoriteController.ListMine)
	protected.POST("/users/:id/follow", followController.Toggle)
	protected.GET("/users/:id/follow/status", followController.Status)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
