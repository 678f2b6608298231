package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultLogEnableFile = false
	DefaultLogFilePath   = "logs/listingvault.log"
	DefaultLogMaxSize    = 100 // MB
	DefaultLogMaxBackups = 7
	DefaultLogMaxAge     = 28 // 天
	DefaultLogCompress   = true
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

type (
	// LogConfig 日志相关配置.
	LogConfig struct {
		Level      string `mapstructure:"level"        rule:"oneof=trace debug info warn error fatal panic disabled"`
		Format     string `mapstructure:"format"       rule:"oneof=console json"`
		EnableFile bool   `mapstructure:"enable_file"`
		FilePath   string `mapstructure:"file_path"`
		MaxSize    int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age_days"`
		Compress   bool   `mapstructure:"compress"`
	}
)

func (l *LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.enable_file", DefaultLogEnableFile)
	v.SetDefault("log.file_path", DefaultLogFilePath)
	v.SetDefault("log.max_size_mb", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age_days", DefaultLogMaxAge)
	v.SetDefault("log.compress", DefaultLogCompress)
}
