package main

import (
	"net/http"
	"os"

	"board-backend/config"
	"board-backend/handlers"
	"board-backend/middleware"
	"board-backend/repositories"
	"board-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	hashtagRepo := repositories.NewHashtagRepository(db)
	articleHashtagRepo := repositories.NewArticleHashtagRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	hashtagService := services.NewHashtagService(db, hashtagRepo, articleHashtagRepo)
	articleService := services.NewArticleService(db, articleRepo, hashtagService)
	commentService := services.NewCommentService(commentRepo, articleRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService, hashtagService)
	hashtagHandler := handlers.NewHashtagHandler(hashtagService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Periodic sweep for hashtags whose post-commit reap was missed
	sweepSpec := os.Getenv("REAP_INTERVAL")
	if sweepSpec == "" {
		sweepSpec = "@every 1h"
	}
	quartz := cron.New()
	if _, err := quartz.AddFunc(sweepSpec, func() {
		if n, err := hashtagService.ReapOrphans(); err != nil {
			log.Error().Err(err).Msg("Orphan hashtag sweep failed.")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("Reaped orphan hashtags.")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", sweepSpec).Msg("Invalid reap interval.")
	}
	quartz.Start()
	defer quartz.Stop()

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public browse routes
		v1.GET("/articles", articleHandler.GetArticles)
		v1.GET("/search/articles", articleHandler.SearchArticles)
		v1.GET("/articles/:id", articleHandler.GetArticle)
		v1.GET("/articles/:id/comments", commentHandler.GetComments)
		v1.GET("/hashtags", hashtagHandler.GetHashtags)

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)

			protected.POST("/articles", articleHandler.CreateArticle)
			protected.PUT("/articles/:id", articleHandler.UpdateArticle)
			protected.DELETE("/articles/:id", articleHandler.DeleteArticle)

			protected.POST("/articles/:id/comments", commentHandler.CreateComment)
			protected.PUT("/comments/:comment_id", commentHandler.UpdateComment)
			protected.DELETE("/comments/:comment_id", commentHandler.DeleteComment)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
