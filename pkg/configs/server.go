package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort         = 8080
	DefaultHost         = "0.0.0.0"
	DefaultReloadConfig = true
	DefaultDebug        = false
	DefaultTimeout      = 30 // 秒
	DefaultGzip         = true
)

type (
	// ServerConfig 服务器配置.
	ServerConfig struct {
		Port         int      `mapstructure:"port"          rule:"min=1,max=65535"`
		Host         string   `mapstructure:"host"          rule:"ip"`
		ReloadConfig bool     `mapstructure:"reload_config"`
		Debug        bool     `mapstructure:"debug"`
		Timeout      int      `mapstructure:"timeout"       rule:"min=1,max=300"`
		Gzip         bool     `mapstructure:"gzip"`
		CORSOrigins  []string `mapstructure:"cors_origins"`
	}
)

// Addr 返回 host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetTimeoutDuration 返回超时时间作为 time.Duration.
func (s *ServerConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// setDefaults 设置服务器配置的默认值.
func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.reload_config", DefaultReloadConfig)
	v.SetDefault("server.debug", DefaultDebug)
	v.SetDefault("server.timeout", DefaultTimeout)
	v.SetDefault("server.gzip", DefaultGzip)
	v.SetDefault("server.cors_origins", []string{"*"})
}
