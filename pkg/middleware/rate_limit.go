package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/listingvault/pkg/configs"
)

// MsgRateLimited 触发限流时的提示.
const MsgRateLimited = "Demasiadas solicitudes, intente más tarde"

const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet 按 key 维护令牌桶，闲置超过 limiterIdle 的 key 在访问时顺带清理.
type limiterSet struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	visitors map[string]*visitor
	lastGC   time.Time
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastGC) > limiterIdle {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(s.visitors, k)
			}
		}

		s.lastGC = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.visitors[key] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// RateLimitMiddleware 令牌桶限流. cfg.Key 取 global、ip 或 header:<名称>，ExemptPaths 中的前缀不限流.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	set := &limiterSet{rps: rate.Limit(cfg.RPS), burst: burst, visitors: map[string]*visitor{}, lastGC: time.Now()}
	mode := strings.ToLower(strings.TrimSpace(cfg.Key))

	keyOf := func(c *gin.Context) string {
		switch {
		case mode == "global":
			return "global"
		case strings.HasPrefix(mode, "header:"):
			if v := c.GetHeader(strings.TrimPrefix(mode, "header:")); v != "" {
				return v
			}
		}

		if ip := c.ClientIP(); ip != "" {
			return ip
		}

		return "unknown"
	}

	exempt := func(path string) bool {
		for _, prefix := range cfg.ExemptPaths {
			if prefix != "" && strings.HasPrefix(path, prefix) {
				return true
			}
		}

		return false
	}

	return func(c *gin.Context) {
		if exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		if !set.allow(keyOf(c), time.Now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": MsgRateLimited})

			return
		}

		c.Next()
	}
}
