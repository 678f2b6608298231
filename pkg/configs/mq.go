package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS  MQType = "nats"
	MQTypeRedis MQType = "redis"

	DefaultMQURL          = "nats://localhost:4222"
	DefaultMQClientName   = "listingvault"
	DefaultMaxReconnects  = 5
	DefaultReconnectWait  = 2 * time.Second
	DefaultPingInterval   = 20 * time.Second
	DefaultDurablePrefix  = "listingvault"
	DefaultRedisStreamLen = 10000 // Redis 通道不持久化，仅用于限制订阅缓冲
)

// MQConfig 消息队列配置.
type MQConfig struct {
	Type  MQType        `mapstructure:"type"  rule:"oneof=nats redis"`
	NATS  MQNATSConfig  `mapstructure:"nats"`
	Redis MQRedisConfig `mapstructure:"redis"`
}

// MQNATSConfig NATS（可选 JetStream）配置.
type MQNATSConfig struct {
	URL           string        `mapstructure:"url"`
	ClusterURLs   []string      `mapstructure:"cluster_urls"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	JWT           string        `mapstructure:"jwt"`
	NKey          string        `mapstructure:"nkey"`
	ClientName    string        `mapstructure:"client_name"`
	MaxReconnects int           `mapstructure:"max_reconnects" rule:"min=0,max=100"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	PingInterval  time.Duration `mapstructure:"ping_interval"`

	JetStream     bool   `mapstructure:"jetstream"`
	AutoProvision bool   `mapstructure:"auto_provision"`
	TrackMsgID    bool   `mapstructure:"track_msg_id"`
	AckAsync      bool   `mapstructure:"ack_async"`
	DurablePrefix string `mapstructure:"durable_prefix"`
}

// MQRedisConfig Redis Pub/Sub 配置.
type MQRedisConfig struct {
	Addr       string `mapstructure:"addr"        rule:"hostname_port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"          rule:"min=0,max=15"`
	BufferSize int    `mapstructure:"buffer_size" rule:"min=1"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置 MQ 配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeNATS)

	v.SetDefault("mq.nats.url", DefaultMQURL)
	v.SetDefault("mq.nats.cluster_urls", []string{})
	v.SetDefault("mq.nats.client_name", DefaultMQClientName)
	v.SetDefault("mq.nats.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.nats.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.ping_interval", DefaultPingInterval)
	v.SetDefault("mq.nats.jetstream", true)
	v.SetDefault("mq.nats.auto_provision", true)
	v.SetDefault("mq.nats.track_msg_id", true)
	v.SetDefault("mq.nats.ack_async", false)
	v.SetDefault("mq.nats.durable_prefix", DefaultDurablePrefix)

	v.SetDefault("mq.redis.addr", "localhost:6379")
	v.SetDefault("mq.redis.password", "")
	v.SetDefault("mq.redis.db", 0)
	v.SetDefault("mq.redis.buffer_size", 100)
}
