package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/middleware"
)

// SchedulerJobs 返回所有调度器任务信息.
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler not running"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}

// SchedulerRunJob 立即执行一次任务.
func SchedulerRunJob(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler not running"})
		return
	}

	name := c.Param("name")
	if _, err := sched.GetJobInfoByName(name); err != nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: err.Error()})
		return
	}

	if err := sched.RunNow(name); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, types.MessageResponse{Message: "job triggered"})
}

// SchedulerRemoveJob 根据名称删除任务.
func SchedulerRemoveJob(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler not running"})
		return
	}

	name := c.Param("name")
	if _, err := sched.GetJobInfoByName(name); err != nil {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: err.Error()})
		return
	}

	if err := sched.RemoveJobByName(name); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "job removed"})
}
