// Package tree 实现文件夹树与文件元数据的仓库层：同级唯一性、
// 环路防护、重命名/移动时的物化路径级联更新、带统计的级联删除.
// 所有多行变更都在单个事务内完成；对象存储侧的搬移由上层编排.
package tree

import (
	"strings"

	"gorm.io/gorm"
)

// Repo 基于 GORM 的树仓库.
type Repo struct {
	db *gorm.DB
}

// NewRepo 创建仓库实例.
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// DB 返回底层 GORM 实例.
func (r *Repo) DB() *gorm.DB {
	return r.db
}

// escapeLike 转义 LIKE 模式中的通配符. 名字允许包含 % 和 _，
// 前缀查询必须按字面匹配.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)

	return s
}

// subtreeCond 生成匹配 full 自身及其后代路径的查询条件.
// 后代的 path 要么等于 full，要么以 "full/" 开头.
func subtreeCond(db *gorm.DB, owner, full string) *gorm.DB {
	return db.Where(
		"owner = ? AND (path = ? OR path LIKE ? ESCAPE '\\')",
		owner, full, escapeLike(full)+"/%",
	)
}
