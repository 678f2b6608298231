// Package api 组装 HTTP 接口：把服务装配成处理器并注册到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/handle"
	"github.com/yeisme/listingvault/pkg/internal/router"
)

// RegisterGroup 注册全部路由，调试模式下额外注册调度器与 Swagger 路由.
func RegisterGroup(e *gin.Engine, h *handle.Handler, cfg configs.ServerConfig, opts router.Options) *gin.Engine {
	router.RegisterLivenessRoute(e)

	g := e.Group("/api")
	router.RegisterAPIRoutes(g, h, opts)

	if cfg.Debug {
		router.RegisterSchedulerRoutes(g)
		router.RegisterSwaggerRoute(e, cfg)
	}

	return e
}
