package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分领域）.
type EventsConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Image    ImageEventsConfig    `mapstructure:"image"`
	Property PropertyEventsConfig `mapstructure:"property"`
}

// ImageEventsConfig 图片领域事件开关.
type ImageEventsConfig struct {
	Stored   bool `mapstructure:"stored"`
	Rejected bool `mapstructure:"rejected"`
	Deleted  bool `mapstructure:"deleted"`
}

// PropertyEventsConfig 房源领域事件开关.
type PropertyEventsConfig struct {
	Created bool `mapstructure:"created"`
	Updated bool `mapstructure:"updated"`
	Deleted bool `mapstructure:"deleted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 默认关闭，未部署消息队列时服务也能启动
	v.SetDefault("events.enabled", false)

	v.SetDefault("events.image.stored", true)
	v.SetDefault("events.image.deleted", true)
	v.SetDefault("events.image.rejected", false) // 被拒文件可能很多

	v.SetDefault("events.property.created", true)
	v.SetDefault("events.property.updated", true)
	v.SetDefault("events.property.deleted", true)
}
