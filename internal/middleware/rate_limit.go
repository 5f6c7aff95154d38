package middleware

import (
	"fmt"
	"net/http"

	"storefront/internal/util/logger"
	rate_limit "storefront/internal/util/rate_limit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware limits requests per client IP. When the limiter
// backend is unreachable the request is let through: availability over
// strictness.
func RateLimitMiddleware(limiter *rate_limit.RateLimiter, rpsLimit, burstLimit int) gin.HandlerFunc {
	log := logger.GetLogger()

	return func(ctx *gin.Context) {
		result, err := limiter.CheckRateLimit(ctx.ClientIP(), rpsLimit, burstLimit)
		if err != nil {
			log.Warn("rate limit check failed, allowing request", "error", err)
			ctx.Next()
			return
		}

		if !result.Allowed {
			ctx.Header("Retry-After", fmt.Sprintf("%d", result.RetryAfterSec))
			ctx.JSON(
				http.StatusTooManyRequests,
				gin.H{"error": "Rate limit exceeded. Please try again later."},
			)
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
