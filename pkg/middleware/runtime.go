package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/storage"
	"github.com/yeisme/listingvault/pkg/scheduler"
)

// StorageMiddleware 注入房源与图片共用的存储管理器，/api/health/:component 按名称检查其中的后端.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxPkg.WithStorageManager(c.Request.Context(), manager))
		c.Next()
	}
}

// SchedulerMiddleware 注入任务调度器，调试路由用它查看或立即触发孤儿图片清理.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxPkg.WithScheduler(c.Request.Context(), sched))
		c.Next()
	}
}

// GetScheduler 取出请求上注入的调度器.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	return ctxPkg.GetScheduler(c.Request.Context())
}
