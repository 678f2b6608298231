// Package middleware 提供 Gin 中间件：日志、指标、追踪、限流、熔断、CORS、压缩、请求体限制与响应缓存.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MsgRequestTooLarge 请求体超过上限时的提示.
const MsgRequestTooLarge = "La solicitud excede el tamaño máximo permitido"

// BodyLimitMiddleware 限制请求体大小，超过 max 字节返回 413. max <= 0 时不限制.
// Content-Length 已知时直接拒绝，否则在读取时截断.
func BodyLimitMiddleware(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": MsgRequestTooLarge})
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}

		c.Next()
	}
}
