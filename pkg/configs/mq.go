package configs

import (
	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS MQType = "nats"

	DefaultMQURL         = "nats://localhost:4222"
	DefaultMaxReconnects = 5 // 默认最大重连次数
	DefaultReconnectWait = 5 // 默认重连等待时间（秒）
)

// MQConfig 消息队列配置.
type MQConfig struct {
	Type   MQType         `mapstructure:"type"   rule:"oneof=nats"`
	Common MQCommonConfig `mapstructure:"common"`
	NATS   MQNATSConfig   `mapstructure:"nats"`
}

// MQCommonConfig 通用MQ配置.
type MQCommonConfig struct {
	URL           string `mapstructure:"url"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	ClientID      string `mapstructure:"client_id"`
	MaxReconnects int    `mapstructure:"max_reconnects" rule:"min=0,max=100"`
	ReconnectWait int    `mapstructure:"reconnect_wait" rule:"min=1,max=300"`
}

// MQNATSConfig NATS MQ 配置.
type MQNATSConfig struct {
	JetStreamEnabled bool   `mapstructure:"jetstream_enabled"`
	StreamName       string `mapstructure:"stream_name"`
	SubjectPrefix    string `mapstructure:"subject_prefix"`
}

// GetMQType 返回消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// setDefaults 设置 MQ 配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeNATS)
	v.SetDefault("mq.common.url", DefaultMQURL)
	v.SetDefault("mq.common.user", "")
	v.SetDefault("mq.common.password", "")
	v.SetDefault("mq.common.client_id", "filevault-app")
	v.SetDefault("mq.common.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.common.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.jetstream_enabled", false)
	v.SetDefault("mq.nats.stream_name", "filevault")
	v.SetDefault("mq.nats.subject_prefix", "fv")
}
