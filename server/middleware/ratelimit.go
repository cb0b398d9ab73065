package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/quorumbot/resilience"
)

// RateLimit rejects requests with 429 once the token bucket described by
// cfg is empty. The bucket is shared by every caller of the route.
func RateLimit(cfg resilience.RateLimiterConfig) gin.HandlerFunc {
	rl := resilience.NewRateLimiter(cfg)
	return func(c *gin.Context) {
		if !rl.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
