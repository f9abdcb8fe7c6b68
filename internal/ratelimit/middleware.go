package ratelimit

import (
	"math"

	"github.com/gin-gonic/gin"

	"github.com/findora/search-api/pkg/log"
	"github.com/findora/search-api/pkg/response"
)

// GinMiddleware limits requests per client IP within the current window.
// Limiter backend failures fail open: a broken Redis must not take the API
// down with it.
func GinMiddleware(limiter Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), ip+":"+c.FullPath(), limit)
		if err != nil {
			l := log.Ctx(c.Request.Context())
			l.Warn().Err(err).Str(log.FieldClientIP, ip).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if !allowed {
			l := log.Ctx(c.Request.Context())
			l.Warn().
				Str(log.FieldClientIP, ip).
				Str(log.FieldPath, c.Request.URL.Path).
				Msg("rate limit exceeded")

			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			response.TooManyRequests(c, "Too many requests. Please try again later.", seconds)
			c.Abort()
			return
		}

		c.Next()
	}
}
