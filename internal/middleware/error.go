package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/logger"
)

const pipelineCallerKey = "pipelineCaller"

// ErrorHandler renders errors attached to the Gin context as
// {"error": {"code", "message"}}. Binding errors become INVALID_INPUT, any
// other non-AppError becomes INTERNAL_ERROR, and internal causes are only
// logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		appErr, ok := apperrors.As(last.Err)
		switch {
		case ok:
		case last.IsType(gin.ErrorTypeBind):
			appErr = apperrors.WithMessage(apperrors.ErrInvalidInput, last.Err.Error())
		default:
			appErr = apperrors.Wrap(apperrors.ErrInternalServer, last.Err)
		}

		if appErr.Internal != nil || appErr.StatusCode >= 500 {
			fields := []any{
				"code", appErr.Code,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(requestIDKey),
			}
			if appErr.Internal != nil {
				fields = append(fields, "internal", appErr.Internal.Error())
			}
			if c.GetBool(pipelineCallerKey) {
				fields = append(fields, "pipeline", true)
			}
			logger.Named("http").Errorw("request failed", fields...)
		}

		writeError(c, appErr)
	}
}

func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.Abort()
	writeError(c, appErr)
}
