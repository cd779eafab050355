package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit limits requests per client IP. Used on the magic-link
// endpoint to keep it from becoming a mail cannon.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 5
	}

	var limiters sync.Map

	getLimiter := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			if lim, ok := v.(*rate.Limiter); ok {
				return lim
			}
		}
		lim := rate.NewLimiter(rps, burst)
		actual, loaded := limiters.LoadOrStore(key, lim)
		if loaded {
			if actualLim, ok := actual.(*rate.Limiter); ok {
				return actualLim
			}
		}
		return lim
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too_many_requests",
			})
			return
		}
		c.Next()
	}
}
