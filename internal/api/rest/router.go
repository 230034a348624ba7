package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/soapbox/bible-verses/internal/api/middleware"
	"github.com/soapbox/bible-verses/internal/api/rest/handler"
	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/lookup"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, db *database.DB, repo database.RepositoryInterface, svc *lookup.Service) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(middleware.CORS())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(db))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(repo))

		// Verse routes
		verseHandler := handler.NewVerseHandler(svc)
		v1.GET("/verses", verseHandler.GetReference)
		v1.GET("/verses/random", verseHandler.RandomVerse)
		v1.GET("/verses/search", verseHandler.SearchVerses)
		v1.GET("/verses/:book/:chapter/:verse", verseHandler.GetVerse)

		// Canon routes
		bookHandler := handler.NewBookHandler(svc.Canon(), repo)
		v1.GET("/books", bookHandler.ListBooks)
		v1.GET("/books/:book", bookHandler.GetBook)
		v1.GET("/translations", bookHandler.ListTranslations)
	}

	return router
}
