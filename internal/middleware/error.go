package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// WriteError aborts the request with the error envelope for err. Internal
// causes are logged and never written to the client.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
	default:
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}

	status, envelope := apperrors.ToEnvelope(err, time.Now())
	c.AbortWithStatusJSON(status, envelope)
}

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into the error envelope when no response has been written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		WriteError(c, c.Errors.Last().Err)
	}
}

// Recovery turns panics into an internal error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		WriteError(c, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("panic: %v", recovered)))
	})
}

// NoRoute answers unknown paths with a NOT_FOUND envelope.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		WriteError(c, apperrors.WithMessage(apperrors.ErrEntityNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path))
	}
}
