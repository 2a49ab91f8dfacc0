package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request counts and latencies per route.
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method + " " + c.FullPath()

		RecordRequest(serviceName, method, statusCode, time.Since(start))
	}
}
