package configs

import "github.com/spf13/viper"

// ConflictPolicy 上传遇到同名文件时的处理策略.
type ConflictPolicy string

const (
	// ConflictSuffix 自动追加 " (n)" 后缀消歧.
	ConflictSuffix ConflictPolicy = "suffix"
	// ConflictReject 直接拒绝并返回冲突错误.
	ConflictReject ConflictPolicy = "reject"
)

const (
	// DefaultMaxFileSize 单文件大小上限：10 GiB.
	DefaultMaxFileSize = int64(10) << 30
	// DefaultUploadConcurrency 批量上传时并发处理的文件数.
	DefaultUploadConcurrency = 4
)

// UploadConfig 上传策略配置.
type UploadConfig struct {
	// OnConflict 同名冲突策略：suffix（默认）或 reject.
	OnConflict ConflictPolicy `mapstructure:"on_conflict" rule:"oneof=suffix reject"`
	// MaxFileSize 单文件字节数上限.
	MaxFileSize int64 `mapstructure:"max_file_size" rule:"min=1"`
	// Concurrency 批量上传的并发度.
	Concurrency int `mapstructure:"concurrency" rule:"min=1,max=32"`
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.on_conflict", string(ConflictSuffix))
	v.SetDefault("upload.max_file_size", DefaultMaxFileSize)
	v.SetDefault("upload.concurrency", DefaultUploadConcurrency)
}
