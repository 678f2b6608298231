package configs

import "github.com/spf13/viper"

// 熔断默认值：60 秒窗口内至少 20 个请求且 5xx 比例达到一半时打开 30 秒.
const (
	DefaultCBEnabled           = false
	DefaultCBName              = "http"
	DefaultCBFailureRate       = 0.5
	DefaultCBMinRequests       = 20
	DefaultCBIntervalSeconds   = 60
	DefaultCBTimeoutSeconds    = 30
	DefaultCBMaxRequestsInHalf = 5
)

// CircuitBreakerConfig HTTP 熔断，只有 5xx 响应计为失败.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	Name              string  `mapstructure:"name"`
	FailureRate       float64 `mapstructure:"failure_rate"         rule:"min=0,max=1"`
	MinRequests       uint32  `mapstructure:"min_requests"`
	IntervalSeconds   int     `mapstructure:"interval_seconds"     rule:"min=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"      rule:"min=0"`
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"` // 半开状态放行的请求数
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", DefaultCBEnabled)
	v.SetDefault("circuit_breaker.name", DefaultCBName)
	v.SetDefault("circuit_breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("circuit_breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("circuit_breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("circuit_breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("circuit_breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
}
