package middleware

import (
	"math"
	"strconv"
	"time"

	apperrors "github.com/NomadCrew/portfolio-backend/errors"
	"github.com/NomadCrew/portfolio-backend/services"
	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for a rate limited route group.
type RateLimitConfig struct {
	// Scope namespaces the counters, e.g. "contact".
	Scope    string
	Requests int
	Window   time.Duration
}

// RateLimiter limits requests per client IP. The client IP is resolved by gin
// and honours the engine's trusted proxies.
func RateLimiter(limiter services.RateLimiterInterface, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cfg.Scope + ":" + c.ClientIP()

		res, err := limiter.CheckLimit(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			_ = c.Error(apperrors.InternalServerError("Rate limit check failed"))
			c.Abort()
			return
		}
		if res.Limit <= 0 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.RetryAfter).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", retryAfter))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(cfg.Window).Unix(), 10))
		c.Next()
	}
}
