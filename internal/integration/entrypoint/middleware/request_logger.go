package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/infra/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey ContextKey = "request_id"

// RequestLogger assigns a request id and logs every completed request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			logging.FieldComponent, logging.ComponentHTTP,
			logging.FieldRequestID, requestID,
			logging.FieldMethod, c.Request.Method,
			logging.FieldPath, path,
			logging.FieldStatusCode, status,
			logging.FieldDuration, time.Since(start).Milliseconds(),
			logging.FieldClientIP, c.ClientIP(),
		}
		if userID, ok := GetUserIDFromContext(c); ok {
			attrs = append(attrs, logging.FieldUserID, userID.String())
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, logging.FieldError, c.Errors.String())
		}

		slog.Log(c.Request.Context(), level, "HTTP request completed", attrs...)
	}
}

// GetRequestID returns the request id assigned by RequestLogger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}
