package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trichbarbershop/barber-queue/internal/metrics"
)

// Metrics counts requests per route pattern and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.IncHTTP(endpoint, strconv.Itoa(c.Writer.Status()))
	}
}
