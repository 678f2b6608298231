// Package router 把处理器绑定到 gin 路由，并按路由挂载请求体限制与响应缓存.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/cache"
	"github.com/yeisme/listingvault/pkg/internal/handle"
	"github.com/yeisme/listingvault/pkg/middleware"
)

// Options 路由级中间件的参数.
type Options struct {
	// Cache 为 nil 时不做响应缓存.
	Cache       *cache.Cache
	ResponseTTL time.Duration
	// MaxRequestBytes 上传接口的请求体上限.
	MaxRequestBytes int64
}

// RegisterAPIRoutes 注册 /api 下的业务路由.
func RegisterAPIRoutes(g *gin.RouterGroup, h *handle.Handler, opts Options) {
	RegisterUploadRoutes(g, h, opts)
	RegisterPropertyRoutes(g, h, opts)
	RegisterHeroRoutes(g, h, opts)
	RegisterContactRoutes(g, h)
	RegisterHealthCheckRoute(g)
}

// RegisterUploadRoutes 注册图片上传与读取路由.
func RegisterUploadRoutes(g *gin.RouterGroup, h *handle.Handler, opts Options) {
	g.POST("/uploads", middleware.BodyLimitMiddleware(opts.MaxRequestBytes), h.Upload)
	g.GET("/images/:id", h.GetImage)
}

// RegisterPropertyRoutes 注册房源路由，列表可缓存，写操作后清空缓存.
func RegisterPropertyRoutes(g *gin.RouterGroup, h *handle.Handler, opts Options) {
	invalidate := middleware.InvalidateResponses(opts.Cache)

	properties := g.Group("/properties")
	{
		properties.GET("", middleware.ResponseCacheMiddleware(opts.Cache, opts.ResponseTTL), h.ListProperties)
		properties.POST("", invalidate, h.CreateProperty)
		properties.GET("/:id", h.GetProperty)
		properties.PUT("/:id", invalidate, h.UpdateProperty)
		properties.DELETE("/:id", invalidate, h.DeleteProperty)
	}
}

// RegisterHeroRoutes 注册横幅配置路由.
func RegisterHeroRoutes(g *gin.RouterGroup, h *handle.Handler, opts Options) {
	hero := g.Group("/hero/propiedades")
	{
		hero.GET("", h.GetHero)
		hero.POST("", h.SaveHero)
		hero.POST("/image", middleware.BodyLimitMiddleware(opts.MaxRequestBytes), h.UploadHeroImage)
	}
}

// RegisterContactRoutes 注册联系请求路由.
func RegisterContactRoutes(g *gin.RouterGroup, h *handle.Handler) {
	g.POST("/contacts", h.CreateContact)
	g.GET("/contacts", h.ListContacts)
}
