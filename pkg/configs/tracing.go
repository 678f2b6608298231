package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMaxBatchSize = 512
	DefaultMaxQueueSize = 2048
)

// TracingConfig OpenTelemetry 追踪配置.
type TracingConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	ServiceName    string            `mapstructure:"service_name"`
	ExporterType   string            `mapstructure:"exporter_type"  rule:"oneof=otlp-http otlp-grpc zipkin"`
	Endpoint       string            `mapstructure:"endpoint"`
	Insecure       bool              `mapstructure:"insecure"`
	SampleRate     float64           `mapstructure:"sample_rate"    rule:"min=0,max=1"`
	BatchTimeout   time.Duration     `mapstructure:"batch_timeout"`
	MaxBatchSize   int               `mapstructure:"max_batch_size"`
	MaxQueueSize   int               `mapstructure:"max_queue_size"`
	ResourceLabels map[string]string `mapstructure:"resource_labels"`
}

// setDefaults 设置 Tracing 配置的默认值.
func (c *TracingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "listingvault")
	v.SetDefault("tracing.exporter_type", "otlp-http")
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.batch_timeout", "5s")
	v.SetDefault("tracing.max_batch_size", DefaultMaxBatchSize)
	v.SetDefault("tracing.max_queue_size", DefaultMaxQueueSize)
	v.SetDefault("tracing.resource_labels", map[string]string{})
}
