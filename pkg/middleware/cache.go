package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/listingvault/pkg/cache"
	ctxPkg "github.com/yeisme/listingvault/pkg/context"
)

const (
	// ResponseKeyPrefix 响应缓存键前缀.
	ResponseKeyPrefix = "rc:"
	// BypassHeader 请求带此头时跳过缓存.
	BypassHeader = "X-Cache-Bypass"
	// DefaultMaxBodyBytes 超过该大小的响应不缓存.
	DefaultMaxBodyBytes = 1 << 20
)

// responseEntry 缓存的响应.
type responseEntry struct {
	Status      int    `json:"s"`
	ContentType string `json:"c,omitempty"`
	Body        []byte `json:"b,omitempty"`
	ETag        string `json:"e"`
	StoredAt    int64  `json:"t"`
}

// ResponseCacheMiddleware 缓存 GET 请求的 200 响应，键由路由模板与排序后的查询参数组成.
// ttl <= 0 或 c 为 nil 时不缓存.
func ResponseCacheMiddleware(c *appcache.Cache, ttl time.Duration) gin.HandlerFunc {
	if c == nil || ttl <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet || ctx.GetHeader(BypassHeader) != "" {
			ctx.Next()
			return
		}

		key := responseKey(ctx)

		if entry, err := appcache.Get[responseEntry](ctx.Request.Context(), c, key); err == nil {
			serveEntry(ctx, entry)
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: ctx.Writer, max: DefaultMaxBodyBytes}
		ctx.Writer = bw
		ctx.Header("X-Cache", "MISS")

		ctx.Next()

		if bw.Status() != http.StatusOK || bw.truncated {
			return
		}

		body := bytes.Clone(bw.buf.Bytes())
		entry := responseEntry{
			Status:      http.StatusOK,
			ContentType: bw.Header().Get("Content-Type"),
			Body:        body,
			ETag:        `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`,
			StoredAt:    time.Now().UnixNano(),
		}

		if err := appcache.Set(context.WithoutCancel(ctx.Request.Context()), c, key, entry, ttl); err != nil {
			ctxPkg.Logger(ctx.Request.Context()).Warn().Err(err).Msg("store response cache failed")
		}
	}
}

// InvalidateResponses 写操作成功后清空全部响应缓存.
func InvalidateResponses(c *appcache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if c == nil || ctx.Writer.Status() >= http.StatusBadRequest {
			return
		}

		if _, err := c.Invalidate(context.WithoutCancel(ctx.Request.Context()), ResponseKeyPrefix+"*"); err != nil {
			ctxPkg.Logger(ctx.Request.Context()).Warn().Err(err).Msg("invalidate response cache failed")
		}
	}
}

func serveEntry(ctx *gin.Context, e responseEntry) {
	h := ctx.Writer.Header()
	h.Set("ETag", e.ETag)
	h.Set("X-Cache", "HIT")
	h.Set("Age", strconv.FormatInt(int64(time.Since(time.Unix(0, e.StoredAt)).Seconds()), 10))

	if ctx.GetHeader("If-None-Match") == e.ETag {
		ctx.AbortWithStatus(http.StatusNotModified)
		return
	}

	ctx.Data(e.Status, e.ContentType, e.Body)
	ctx.Abort()
}

// responseKey 方法、路由与排序后的查询参数取 xxhash.
func responseKey(ctx *gin.Context) string {
	var b strings.Builder

	b.WriteString(ctx.Request.Method)
	b.WriteByte(' ')

	route := ctx.FullPath()
	if route == "" {
		route = ctx.Request.URL.Path
	}

	b.WriteString(route)

	q := ctx.Request.URL.Query()
	keys := make([]string, 0, len(q))

	for k := range q {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(q[k], ","))
	}

	return ResponseKeyPrefix + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// bodyCaptureWriter 复制响应体，超过 max 后停止复制.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	max       int
	truncated bool
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if !w.truncated {
		if w.buf.Len()+len(b) > w.max {
			w.truncated = true
		} else {
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
