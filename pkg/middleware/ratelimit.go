package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/pkg/ratelimit"
	"github.com/ryderx/service-rental/pkg/response"
)

// RateLimitMiddleware rejects callers over the limiter's budget with 429.
// Authenticated callers are keyed by user id, anonymous ones by client IP.
// A limiter backend failure lets the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := GetUserID(c); ok {
			key = id.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.TooManyRequests(c, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
