package model

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize 单文件大小上限（10 GiB），入库前校验.
const MaxFileSize = int64(10) << 30

// StoredFile 文件元数据模型. ObjectKey 指向对象存储中的实际字节，
// 与显示名解耦：重命名/移动只改元数据，不触碰对象键.
// 同一 (owner, path, original_name) 下显示名唯一.
type StoredFile struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Owner string `gorm:"size:255;index;uniqueIndex:idx_owner_path_orig" json:"owner"`
	// FolderID 所属文件夹，NULL 表示根目录
	FolderID *uint   `gorm:"index"               json:"folder_id,omitempty"`
	Folder   *Folder `gorm:"foreignKey:FolderID" json:"-"`
	// Path 所属文件夹的完整路径缓存，根目录为空串；随文件夹重命名/移动级联更新
	Path string `gorm:"size:1000;uniqueIndex:idx_owner_path_orig;index" json:"path"`
	// ObjectKey 对象存储键（全局唯一、与显示名无关）
	ObjectKey    string `gorm:"size:1024;uniqueIndex"                        json:"object_key"`
	OriginalName string `gorm:"size:255;uniqueIndex:idx_owner_path_orig;index" json:"original_name"`
	Size         int64  `gorm:"index"                                        json:"size"`
	MimeType     string `gorm:"size:100"                                     json:"mime_type"`
	IsPublic     bool   `gorm:"index"                                        json:"is_public"`
	// PublicLink 随机公开链接标识，全局唯一且与 owner 无关
	PublicLink string `gorm:"size:36;uniqueIndex" json:"public_link"`

	UploadedAt time.Time `gorm:"index" json:"uploaded_at"`
}

// FullPath 文件的完整逻辑路径.
func (f *StoredFile) FullPath() string {
	if f.Path == "" {
		return f.OriginalName
	}

	return f.Path + "/" + f.OriginalName
}

// Extension 文件扩展名（不含点，小写）.
func (f *StoredFile) Extension() string {
	ext := strings.TrimPrefix(filepath.Ext(f.OriginalName), ".")

	return strings.ToLower(ext)
}

// DisplayName 去掉扩展名的显示名.
func (f *StoredFile) DisplayName() string {
	return strings.TrimSuffix(f.OriginalName, filepath.Ext(f.OriginalName))
}

// ResolvedMimeType 返回记录的 MIME 类型，为空时按扩展名推断，
// 最终回退到 application/octet-stream.
func (f *StoredFile) ResolvedMimeType() string {
	if f.MimeType != "" {
		return f.MimeType
	}

	if mt := mime.TypeByExtension(filepath.Ext(f.OriginalName)); mt != "" {
		return mt
	}

	return "application/octet-stream"
}

// HumanSize 人类可读的文件大小.
func (f *StoredFile) HumanSize() string {
	const unit = int64(1024)

	if f.Size < unit {
		return fmt.Sprintf("%d B", f.Size)
	}

	div, exp := unit, 0
	for n := f.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	suffixes := []string{"KB", "MB", "GB", "TB"}

	return fmt.Sprintf("%.1f %s", float64(f.Size)/float64(div), suffixes[exp])
}
