package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/metrics"
)

// Metrics records request counts and latency by route template so ids in
// the path do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestStarted()
		c.Next()

		metrics.RequestFinished(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
