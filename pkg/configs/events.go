package configs

import "github.com/spf13/viper"

// EventsConfig 控制变更事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Object  ObjectEventsConfig `mapstructure:"object"`
	Folder  FolderEventsConfig `mapstructure:"folder"`
}

// ObjectEventsConfig 文件对象领域的事件开关.
type ObjectEventsConfig struct {
	Stored  bool `mapstructure:"stored"`
	Deleted bool `mapstructure:"deleted"`
	Renamed bool `mapstructure:"renamed"`
}

// FolderEventsConfig 文件夹领域的事件开关.
type FolderEventsConfig struct {
	Created bool `mapstructure:"created"`
	Moved   bool `mapstructure:"moved"`
	Deleted bool `mapstructure:"deleted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认关闭，部署了 NATS 的环境按需开启
	v.SetDefault("events.enabled", false)

	v.SetDefault("events.object.stored", true)
	v.SetDefault("events.object.deleted", true)
	v.SetDefault("events.object.renamed", false)

	v.SetDefault("events.folder.created", false)
	v.SetDefault("events.folder.moved", true)
	v.SetDefault("events.folder.deleted", true)
}
