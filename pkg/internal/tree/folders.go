package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/pathutil"
)

// maxTreeDepth 环路检测时父链遍历的上限，超过视为数据损坏.
const maxTreeDepth = 256

// CreateFolder 在 parent 下创建文件夹，parent 为 nil 表示根目录.
// 同级重名返回 ErrConflict.
func (r *Repo) CreateFolder(ctx context.Context, owner, name string, parent *model.Folder) (*model.Folder, error) {
	folder := &model.Folder{
		Owner: owner,
		Name:  name,
	}

	if parent != nil {
		folder.ParentID = &parent.ID
		folder.Path = parent.FullPath()
	}

	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("folder %q: %w", name, ErrConflict)
		}

		return nil, fmt.Errorf("create folder: %w", err)
	}

	return folder, nil
}

// FolderByID 按 ID 查找用户的文件夹.
func (r *Repo) FolderByID(ctx context.Context, owner string, id uint) (*model.Folder, error) {
	var folder model.Folder

	err := r.db.WithContext(ctx).
		Where("owner = ? AND id = ?", owner, id).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("find folder: %w", err)
	}

	return &folder, nil
}

// FolderByPath 按完整逻辑路径查找文件夹. path 必须为规范化非空路径.
func (r *Repo) FolderByPath(ctx context.Context, owner, path string) (*model.Folder, error) {
	var folder model.Folder

	err := r.db.WithContext(ctx).
		Where("owner = ? AND path = ? AND name = ?", owner, pathutil.Dir(path), pathutil.Base(path)).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("folder %q: %w", path, ErrNotFound)
		}

		return nil, fmt.Errorf("find folder by path: %w", err)
	}

	return &folder, nil
}

// FindOrCreateFolderByPath 逐段解析路径，缺失的祖先文件夹依次创建.
// 返回最终文件夹与本次新建的完整路径列表（供上层补写标记对象）.
// path 为空返回 (nil, nil, nil)，表示根目录.
func (r *Repo) FindOrCreateFolderByPath(ctx context.Context, owner, path string) (*model.Folder, []string, error) {
	if path == "" {
		return nil, nil, nil
	}

	var (
		parent  *model.Folder
		created []string
	)

	for _, segment := range pathutil.Split(path) {
		parentPath := ""
		if parent != nil {
			parentPath = parent.FullPath()
		}

		folder, err := r.FolderByPath(ctx, owner, pathutil.Join(parentPath, segment))
		if err == nil {
			parent = folder
			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, created, err
		}

		folder, err = r.CreateFolder(ctx, owner, segment, parent)
		if err != nil {
			// 并发创建的败者重查一次
			if errors.Is(err, ErrConflict) {
				folder, err = r.FolderByPath(ctx, owner, pathutil.Join(parentPath, segment))
				if err != nil {
					return nil, created, err
				}

				parent = folder

				continue
			}

			return nil, created, err
		}

		created = append(created, folder.FullPath())
		parent = folder
	}

	return parent, created, nil
}

// RenameFolder 重命名文件夹并级联更新后代的物化路径.
// 同名重命名是空操作；同级重名返回 ErrConflict.
func (r *Repo) RenameFolder(ctx context.Context, owner string, id uint, newName string) (*model.Folder, error) {
	folder, err := r.FolderByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if folder.Name == newName {
		return folder, nil
	}

	oldFull := folder.FullPath()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(folder).Update("name", newName).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("folder %q: %w", newName, ErrConflict)
			}

			return fmt.Errorf("rename folder: %w", err)
		}

		folder.Name = newName

		return relocateSubtree(tx, owner, oldFull, folder.FullPath())
	})
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// MoveFolder 将文件夹移动到 newParent 下（nil 表示根目录）.
// 移动到自身或后代返回 ErrCycle；移动到当前父级是空操作.
func (r *Repo) MoveFolder(ctx context.Context, owner string, id uint, newParent *model.Folder) (*model.Folder, error) {
	folder, err := r.FolderByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if sameParent(folder.ParentID, newParent) {
		return folder, nil
	}

	if err := r.checkCycle(ctx, owner, folder, newParent); err != nil {
		return nil, err
	}

	oldFull := folder.FullPath()

	var (
		newParentID *uint
		newPath     string
	)

	if newParent != nil {
		newParentID = &newParent.ID
		newPath = newParent.FullPath()
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"parent_id": newParentID, "path": newPath}
		if err := tx.Model(folder).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("folder %q: %w", folder.Name, ErrConflict)
			}

			return fmt.Errorf("move folder: %w", err)
		}

		folder.ParentID = newParentID
		folder.Path = newPath

		return relocateSubtree(tx, owner, oldFull, folder.FullPath())
	})
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// DeleteStats 级联删除的统计结果.
type DeleteStats struct {
	FoldersDeleted int
	FilesDeleted   int
	// ObjectKeys 被删除文件的对象键，供上层清理对象存储
	ObjectKeys []string
}

// DeleteFolderTree 删除文件夹及其全部后代（文件夹与文件），
// 返回删除统计与被删文件的对象键. 计数包含文件夹自身.
func (r *Repo) DeleteFolderTree(ctx context.Context, owner string, id uint) (*DeleteStats, error) {
	folder, err := r.FolderByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	full := folder.FullPath()
	stats := &DeleteStats{}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var files []model.StoredFile
		if err := subtreeCond(tx.Model(&model.StoredFile{}), owner, full).Find(&files).Error; err != nil {
			return fmt.Errorf("list subtree files: %w", err)
		}

		for _, f := range files {
			stats.ObjectKeys = append(stats.ObjectKeys, f.ObjectKey)
		}

		res := subtreeCond(tx, owner, full).Delete(&model.StoredFile{})
		if res.Error != nil {
			return fmt.Errorf("delete subtree files: %w", res.Error)
		}

		stats.FilesDeleted = int(res.RowsAffected)

		res = subtreeCond(tx, owner, full).Delete(&model.Folder{})
		if res.Error != nil {
			return fmt.Errorf("delete subtree folders: %w", res.Error)
		}

		stats.FoldersDeleted = int(res.RowsAffected)

		if err := tx.Delete(folder).Error; err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}

		stats.FoldersDeleted++

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// ListFolderChildren 列出直接子文件夹，按名字排序.
// parent 为 nil 表示根目录.
func (r *Repo) ListFolderChildren(ctx context.Context, owner string, parent *model.Folder) ([]model.Folder, error) {
	parentPath := ""
	if parent != nil {
		parentPath = parent.FullPath()
	}

	var folders []model.Folder

	err := r.db.WithContext(ctx).
		Where("owner = ? AND path = ?", owner, parentPath).
		Order("name").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return folders, nil
}

// checkCycle 沿候选父级的父链向上走，遇到待移动文件夹即为环路.
func (r *Repo) checkCycle(ctx context.Context, owner string, folder *model.Folder, newParent *model.Folder) error {
	current := newParent

	for depth := 0; current != nil; depth++ {
		if depth >= maxTreeDepth {
			return fmt.Errorf("parent chain exceeds %d levels: %w", maxTreeDepth, ErrCycle)
		}

		if current.ID == folder.ID {
			return fmt.Errorf("folder %q: %w", folder.Name, ErrCycle)
		}

		if current.ParentID == nil {
			return nil
		}

		next, err := r.FolderByID(ctx, owner, *current.ParentID)
		if err != nil {
			return err
		}

		current = next
	}

	return nil
}

// sameParent 判断文件夹当前父级与目标父级是否相同.
func sameParent(parentID *uint, newParent *model.Folder) bool {
	if parentID == nil {
		return newParent == nil
	}

	return newParent != nil && *parentID == newParent.ID
}

// relocateSubtree 将 oldFull 子树下所有文件夹与文件的物化路径
// 前缀替换为 newFull. 在调用方事务内执行.
func relocateSubtree(tx *gorm.DB, owner, oldFull, newFull string) error {
	var folders []model.Folder
	if err := subtreeCond(tx.Model(&model.Folder{}), owner, oldFull).Find(&folders).Error; err != nil {
		return fmt.Errorf("list subtree folders: %w", err)
	}

	for i := range folders {
		newPath := newFull + strings.TrimPrefix(folders[i].Path, oldFull)
		if err := tx.Model(&folders[i]).Update("path", newPath).Error; err != nil {
			return fmt.Errorf("relocate folder path: %w", err)
		}
	}

	var files []model.StoredFile
	if err := subtreeCond(tx.Model(&model.StoredFile{}), owner, oldFull).Find(&files).Error; err != nil {
		return fmt.Errorf("list subtree files: %w", err)
	}

	for i := range files {
		newPath := newFull + strings.TrimPrefix(files[i].Path, oldFull)
		if err := tx.Model(&files[i]).Update("path", newPath).Error; err != nil {
			return fmt.Errorf("relocate file path: %w", err)
		}
	}

	return nil
}
