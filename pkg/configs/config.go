// Package configs 管理应用程序配置，包括数据库、对象存储、消息队列与上传策略.
// 支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本，构建时可通过 ldflags 覆盖.
var AppVersion = "dev"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		DB             DBConfig             `mapstructure:"db"`              // 元数据库配置
		S3             S3Config             `mapstructure:"s3"`              // 对象存储配置
		MQ             MQConfig             `mapstructure:"mq"`              // 消息队列配置
		KV             KVConfig             `mapstructure:"kv"`              // 键值缓存配置
		Server         ServerConfig         `mapstructure:"server"`         // 服务器配置
		Log            LogConfig            `mapstructure:"log"`            // 日志配置
		Upload         UploadConfig         `mapstructure:"upload"`         // 上传策略配置
		Metrics        MetricsConfig        `mapstructure:"metrics"`        // 指标配置
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`     // 限流配置
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // 熔断配置
		Events         EventsConfig         `mapstructure:"events"`         // 事件发布配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	// path 为文件时直接使用，viper 自动检测类型；为目录时按约定文件名探测
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("FILEVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig ServerConfig
		dbConfig     DBConfig
		s3Config     S3Config
		mqConfig     MQConfig
		kvConfig     KVConfig
		logConfig    LogConfig
		uploadConfig UploadConfig
		metricsCfg   MetricsConfig
		rlConfig     RateLimitConfig
		cbConfig     CircuitBreakerConfig
		evConfig     EventsConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	mqConfig.setDefaults(v)
	kvConfig.setDefaults(v)
	logConfig.setDefaults(v)
	uploadConfig.setDefaults(v)
	metricsCfg.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	evConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
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

// GetViper 返回全局 Viper 实例.
func GetViper() *viper.Viper {
	return appViper
}
