package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"hotel-reservation-engine/internal/handler/httperr"
	"hotel-reservation-engine/internal/infra/cache"
	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
	Capacity() int
}

var errRateLimited = errs.New("rate limit exceeded")

// RateLimit throttles per client IP under the given scope. A limiter outage lets the
// request through.
func RateLimit(limiter RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err.Error(), "scope", scope)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Capacity()))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests", nil)
			return
		}
		c.Next()
	}
}
