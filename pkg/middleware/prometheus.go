package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/metrics"
)

// PrometheusMiddleware 记录请求计数与耗时，按路由模板聚合.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
