package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Prometheus 指标配置.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	Path           string            `mapstructure:"path"`            // 主服务上暴露的路径
	Namespace      string            `mapstructure:"namespace"`       // 指标命名空间
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"` // Go 运行时与进程指标
	DBMetrics      bool              `mapstructure:"db_metrics"`      // gorm prometheus 插件
	DBRefreshSecs  uint32            `mapstructure:"db_refresh_seconds"`
	Pprof          bool              `mapstructure:"pprof"`
	Labels         map[string]string `mapstructure:"labels"` // 常量标签
}

// setDefaults 设置 Metrics 配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "listingvault")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.db_metrics", false)
	v.SetDefault("metrics.db_refresh_seconds", 15)
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("metrics.labels", map[string]string{})
}
