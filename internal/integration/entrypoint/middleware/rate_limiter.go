package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/infra/logging"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// RateLimiter counts attempts per client IP in fixed Redis windows.
type RateLimiter struct {
	client      *redis.Client
	prefix      string
	maxAttempts int
	window      time.Duration
}

// NewRateLimiter creates a rate limiter allowing maxAttempts per window.
// A non-positive maxAttempts disables limiting.
func NewRateLimiter(client *redis.Client, prefix string, maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		prefix:      prefix,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

const tooManyAttemptsMessage = "Muitas tentativas. Tente novamente mais tarde."

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.maxAttempts <= 0 || rl.client == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, err := rl.allow(c, clientIP)
		if err != nil {
			// Redis being down must not lock users out
			slog.Warn("Rate limiter unavailable", logging.FieldError, err, logging.FieldClientIP, clientIP)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				string(domainerror.ErrCodeRateLimited),
				tooManyAttemptsMessage,
			))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, clientIP string) (bool, error) {
	ctx := c.Request.Context()
	key := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, clientIP)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(rl.maxAttempts), nil
}
