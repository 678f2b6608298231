package configs

import (
	"time"

	"github.com/spf13/viper"
)

// CacheConfig 业务层缓存（基于 KV 后端）.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Prefix      string        `mapstructure:"prefix"`
	PropertyTTL time.Duration `mapstructure:"property_ttl"`
	ImageTTL    time.Duration `mapstructure:"image_ttl"`
	ResponseTTL time.Duration `mapstructure:"response_ttl"` // 列表接口的响应缓存，0 表示关闭
}

func (c *CacheConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.prefix", "lv")
	v.SetDefault("cache.property_ttl", "5m")
	v.SetDefault("cache.image_ttl", "1h")
	v.SetDefault("cache.response_ttl", "0s")
}
