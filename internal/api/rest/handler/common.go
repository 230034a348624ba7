package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/soapbox/bible-verses/internal/errors"
	"github.com/soapbox/bible-verses/internal/logger"
)

// parsePositiveInt extracts a positive integer from a URL parameter.
// Returns the value and true if successful, or sends an error response and returns false.
func parsePositiveInt(c *gin.Context, param string) (int, bool) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil || n < 1 {
		respondAPIError(c, apierrors.InvalidNumber(param))
		return 0, false
	}
	return n, true
}

// respondError maps err to an API error and sends it. Internal errors are
// logged with the request path; clients only see a generic message.
func respondError(c *gin.Context, err error) {
	apiErr := apierrors.FromError(err)
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	respondAPIError(c, apiErr)
}

func respondAPIError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
