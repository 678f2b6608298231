package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/handle"
)

// RegisterHealthCheckRoute 注册组件健康检查路由.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	g.GET("/health/:component", handle.HealthComponent)
}

// RegisterLivenessRoute 注册根路径的存活检查.
func RegisterLivenessRoute(r *gin.Engine) {
	r.GET("/health", handle.Health)
}
