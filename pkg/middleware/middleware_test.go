package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/listingvault/pkg/cache"
	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
	"github.com/yeisme/listingvault/pkg/middleware"
	"github.com/yeisme/listingvault/pkg/scheduler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// TestBodyLimit 超过上限返回 413.
func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodyLimitMiddleware(8))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusNoContent)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way too large body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), middleware.MsgRequestTooLarge)

	// 未知长度时在读取阶段截断.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("way too large body"))
	req.ContentLength = -1
	w = serve(r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// TestRateLimit 全局令牌桶耗尽后返回 429.
func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2, Key: "global"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 2 {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

// TestRateLimit_ExemptPaths 豁免前缀不消耗令牌.
func TestRateLimit_ExemptPaths(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{
		Enabled: true, RPS: 0.001, Burst: 1, Key: "global", ExemptPaths: []string{"/api/images/"},
	}))
	r.GET("/api/images/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/properties", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/images/x", nil)).Code)
	}

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/properties", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/api/properties", nil)).Code)
}

// TestRateLimit_Disabled 关闭时不限制.
func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{RPS: 0.001, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

// TestResponseCache 命中、条件请求、绕过与写后失效.
func TestResponseCache(t *testing.T) {
	c := cache.NewCache(kv.NewMemoryKV(), "test")
	calls := 0

	r := gin.New()
	r.GET("/items", middleware.ResponseCacheMiddleware(c, time.Minute), func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.POST("/items", middleware.InvalidateResponses(c), func(ctx *gin.Context) {
		ctx.Status(http.StatusCreated)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/items?b=2&a=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/items?a=1&b=2", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/items?a=1&b=2", nil)
	req.Header.Set("If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/items?a=1&b=2", nil)
	req.Header.Set(middleware.BypassHeader, "1")
	assert.JSONEq(t, `{"calls":2}`, serve(r, req).Body.String())

	assert.Equal(t, http.StatusCreated, serve(r, httptest.NewRequest(http.MethodPost, "/items", nil)).Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/items?a=1&b=2", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":3}`, w.Body.String())
}

// TestGzipExcludesImages 图片路径不压缩.
func TestGzipExcludesImages(t *testing.T) {
	r := gin.New()
	r.Use(middleware.GzipMiddleware(true))

	body := strings.Repeat("listing ", 200)
	handler := func(c *gin.Context) { c.String(http.StatusOK, body) }
	r.GET("/api/properties", handler)
	r.GET("/api/images/:id", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	assert.Equal(t, "gzip", serve(r, req).Header().Get("Content-Encoding"))

	req = httptest.NewRequest(http.MethodGet, "/api/images/x", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serve(r, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}

// TestCORS 配置的来源才会被允许.
func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(configs.ServerConfig{CORSOrigins: []string{"https://milhouse.do"}}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://milhouse.do")
	assert.Equal(t, "https://milhouse.do", serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

// TestSchedulerMiddleware 注入后处理器取到同一个调度器，未注入时为 nil.
func TestSchedulerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Stop() })

	var got *scheduler.Scheduler

	e := gin.New()
	e.GET("/bare", func(c *gin.Context) {
		got = middleware.GetScheduler(c)
		c.Status(http.StatusNoContent)
	})
	e.GET("/jobs", middleware.SchedulerMiddleware(sched), func(c *gin.Context) {
		got = middleware.GetScheduler(c)
		c.Status(http.StatusNoContent)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bare", nil))
	assert.Nil(t, got)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Same(t, sched, got)
}
