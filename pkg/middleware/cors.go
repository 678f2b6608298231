package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/configs"
)

// CORSMiddleware 按 server.cors_origins 配置跨域，包含 "*" 或调试模式时允许全部来源.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = append(config.AllowHeaders, "X-Cache-Bypass")
	config.ExposeHeaders = []string{"Content-Length", "Content-Disposition", "ETag", "X-Cache"}

	allowAll := cfg.Debug || len(cfg.CORSOrigins) == 0

	for _, o := range cfg.CORSOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	if allowAll {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = cfg.CORSOrigins
	}

	return cors.New(config)
}
