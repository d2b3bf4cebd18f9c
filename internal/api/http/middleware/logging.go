package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/smart-todo-server/internal/logger"
)

// Logging logs HTTP requests and their results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		l.logger.Info("HTTP request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds())

		if len(c.Errors) > 0 {
			l.logger.Error("HTTP request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", status,
				"errors", c.Errors.String())
		}
	}
}
