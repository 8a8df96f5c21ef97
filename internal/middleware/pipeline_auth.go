package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "nidhi/internal/errors"
)

const apiKeyHeader = "X-API-Key"

// PipelineAuthMiddleware guards the cross-owner pipeline routes. The
// X-API-Key header is checked against the bcrypt hash of the configured
// pipeline key; an empty hash disables the routes.
func PipelineAuthMiddleware(apiKeyHash string) gin.HandlerFunc {
	hash := []byte(apiKeyHash)
	return func(c *gin.Context) {
		if apiKeyHash == "" {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader(apiKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword(hash, []byte(key)) != nil {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Set(pipelineCallerKey, true)
		c.Next()
	}
}
