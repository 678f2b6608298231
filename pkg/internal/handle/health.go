package handle

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/storage"
	"github.com/yeisme/listingvault/pkg/internal/types"
)

const timeout = 2 * time.Second

// Health 进程存活检查.
//
//	@Summary	存活检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Router		/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{Status: "ok"})
}

// HealthComponent 检查单个存储组件：db、s3、kv 或 mq.
//
//	@Summary	组件健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Param		component	path		string	true	"db | s3 | kv | mq"
//	@Success	200			{object}	types.HealthResponse
//	@Failure	404			{object}	types.HealthResponse
//	@Failure	503			{object}	types.HealthResponse
//	@Router		/api/health/{component} [get]
func HealthComponent(c *gin.Context) {
	name := c.Param("component")
	if !slices.Contains(storage.Components, name) {
		c.JSON(http.StatusNotFound, types.HealthResponse{Component: name, Status: "unknown"})
		return
	}

	mgr := ctxPkg.GetManager(c.Request.Context())
	if mgr == nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{
			Component: name, Status: "unhealthy", Error: "storage not initialized",
		})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := mgr.Check(ctx, name); err != nil {
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Component: name, Status: "unhealthy", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: name, Status: "ok"})
}
