// Package configs 管理 listingvault 的全部配置，包括服务、存储、缓存、队列与上传策略.
// 支持多种配置格式（YAML、JSON、TOML、dotenv）并可启用热重载.
//
// Example:
//
//	if err := configs.InitConfig("./configs"); err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := configs.GetConfig()
//	fmt.Println(cfg.Server.Port, cfg.Upload.MaxImageSizeMB)
//
// Example accessing DB config:
//
//	dsn := configs.GetConfig().DB.GetDSN()
//
// Example accessing upload config:
//
//	up := configs.GetConfig().Upload
//	fmt.Println(up.ExtensionList())
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本，构建时可通过 -ldflags 覆盖.
var AppVersion = "0.3.0"

// EnvPrefix 环境变量前缀，例如 LISTINGVAULT_SERVER_PORT.
const EnvPrefix = "LISTINGVAULT"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // 监听地址、端口、调试模式
		Log            LogConfig            `mapstructure:"log"`             // 日志相关配置
		DB             DBConfig             `mapstructure:"db"`              // 关系数据库
		S3             S3Config             `mapstructure:"s3"`              // 图片对象存储
		KV             KVConfig             `mapstructure:"kv"`              // 缓存后端
		MQ             MQConfig             `mapstructure:"mq"`              // 事件总线
		Upload         UploadConfig         `mapstructure:"upload"`          // 图片上传策略
		Cache          CacheConfig          `mapstructure:"cache"`           // 业务缓存
		Events         EventsConfig         `mapstructure:"events"`          // 事件开关
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // Prometheus
		Tracing        TracingConfig        `mapstructure:"tracing"`         // OpenTelemetry
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // 限流
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 熔断
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，path 可以是目录或具体文件.
// 找不到配置文件时仅使用默认值与环境变量.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(filepath.Join(path, "configs"))

		for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.SetEnvPrefix(EnvPrefix)
	appViper.AutomaticEnv()

	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// LoadDefaults 只加载默认值（测试与离线命令使用）.
func LoadDefaults() *AppConfig {
	v := viper.New()
	setAllDefaults(v)

	var cfg AppConfig
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var c AppConfig

	c.Server.setDefaults(v)
	c.Log.setDefaults(v)
	c.DB.setDefaults(v)
	c.S3.setDefaults(v)
	c.KV.setDefaults(v)
	c.MQ.setDefaults(v)
	c.Upload.setDefaults(v)
	c.Cache.setDefaults(v)
	c.Events.setDefaults(v)
	c.Metrics.setDefaults(v)
	c.Tracing.setDefaults(v)
	c.RateLimit.setDefaults(v)
	c.CircuitBreaker.setDefaults(v)
}

// reloadConfigs 监听配置文件变化.
// 上传策略在启动时构建并注入，热重载不会修改正在运行的策略.
func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper 返回全局 Viper 实例，未初始化时为 nil.
func GetViper() *viper.Viper {
	return appViper
}
