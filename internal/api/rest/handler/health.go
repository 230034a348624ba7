package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soapbox/bible-verses/internal/database"
	apierrors "github.com/soapbox/bible-verses/internal/errors"
)

// HealthHandler handles health check requests
func HealthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  apierrors.ErrUnavailable,
			})
			return
		}

		version, err := db.GetSchemaVersion()
		if err != nil {
			version = 0
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"schema_version": version,
		})
	}
}

// StatsHandler returns overall statistics
func StatsHandler(repo database.RepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := repo.GetStatistics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, stats)
	}
}
