package configs

import "github.com/spf13/viper"

// 限流默认值：默认关闭，开启后按客户端 IP 计数.
const (
	DefaultRateLimitEnabled = false
	DefaultRateLimitRPS     = 50.0
	DefaultRateLimitBurst   = 100
	DefaultRateLimitKey     = "ip"
)

// DefaultRateLimitExemptPaths 不参与限流的路径前缀：探活、指标与不可变的图片读取.
var DefaultRateLimitExemptPaths = []string{"/health", "/metrics", "/api/images/"}

// RateLimitConfig 令牌桶限流.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"   rule:"omitempty,gt=0"`
	Burst   int     `mapstructure:"burst" rule:"omitempty,min=1"`
	// Key 限流维度：global、ip 或 header:<请求头名称>
	Key         string   `mapstructure:"key"`
	ExemptPaths []string `mapstructure:"exempt_paths"`
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", DefaultRateLimitEnabled)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("rate_limit.key", DefaultRateLimitKey)
	v.SetDefault("rate_limit.exempt_paths", DefaultRateLimitExemptPaths)
}
