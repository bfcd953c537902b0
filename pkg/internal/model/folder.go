// Package model 定义文件夹树与文件元数据的 GORM 模型.
package model

import (
	"time"
)

// Folder 文件夹模型. 树结构由 ParentID 表达，Path 是祖先名字链的
// 物化缓存（不含自身名字，根级为空串），用于前缀查询而非递归遍历.
// 同一 (owner, path, name) 下名字唯一，比较按字节精确（区分大小写）.
type Folder struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Owner 用户标识，所有读写都按它过滤
	Owner string `gorm:"size:255;index;uniqueIndex:idx_owner_path_name" json:"owner"`
	Name  string `gorm:"size:255;uniqueIndex:idx_owner_path_name"       json:"name"`
	// Path 物化路径：父文件夹的完整路径，根级子文件夹为空串
	Path     string  `gorm:"size:1000;uniqueIndex:idx_owner_path_name;index" json:"path"`
	ParentID *uint   `gorm:"index"                                           json:"parent_id,omitempty"`
	Parent   *Folder `gorm:"foreignKey:ParentID"                             json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// FullPath 文件夹的完整逻辑路径（含自身名字）.
func (f *Folder) FullPath() string {
	if f.Path == "" {
		return f.Name
	}

	return f.Path + "/" + f.Name
}
