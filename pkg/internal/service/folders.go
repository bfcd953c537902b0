package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeisme/filevault/pkg/internal/model"
	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	"github.com/yeisme/filevault/pkg/internal/tree"
	"github.com/yeisme/filevault/pkg/internal/types"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/pathutil"
	"github.com/yeisme/filevault/pkg/rule"
)

// ListContents 列出目录内容与面包屑. 路径不存在返回 tree.ErrNotFound.
func (s *VaultService) ListContents(ctx context.Context, owner, path string) (*types.ListContentsResponse, error) {
	path = pathutil.Normalize(path)

	var parent *model.Folder

	if path != "" {
		folder, err := s.repo.FolderByPath(ctx, owner, path)
		if err != nil {
			return nil, err
		}

		parent = folder
	}

	folders, err := s.repo.ListFolderChildren(ctx, owner, parent)
	if err != nil {
		return nil, err
	}

	files, err := s.repo.ListFilesInFolder(ctx, owner, path)
	if err != nil {
		return nil, err
	}

	resp := &types.ListContentsResponse{
		Path:        path,
		Breadcrumbs: breadcrumbs(path),
		Folders:     make([]types.FolderInfo, 0, len(folders)),
		Files:       make([]types.FileInfo, 0, len(files)),
		Success:     true,
	}

	for i := range folders {
		resp.Folders = append(resp.Folders, folderInfo(&folders[i]))
	}

	for i := range files {
		resp.Files = append(resp.Files, fileInfo(&files[i]))
	}

	return resp, nil
}

// CreateFolder 在 parentPath 下创建文件夹. 标记对象先写入，
// 元数据仅在标记成功后入库.
func (s *VaultService) CreateFolder(ctx context.Context, owner, name, parentPath string) (*types.CreateFolderResponse, error) {
	name = strings.TrimSpace(name)
	if err := rule.ValidateFolderName(name); err != nil {
		return nil, err
	}

	parentPath = pathutil.Normalize(parentPath)
	if err := rule.ValidatePath(pathutil.Join(parentPath, name)); err != nil {
		return nil, err
	}

	var parent *model.Folder

	if parentPath != "" {
		folder, err := s.repo.FolderByPath(ctx, owner, parentPath)
		if err != nil {
			return nil, err
		}

		parent = folder
	}

	// 目标已存在时不写标记，直接报冲突
	full := pathutil.Join(parentPath, name)
	if _, err := s.repo.FolderByPath(ctx, owner, full); err == nil {
		return nil, fmt.Errorf("folder %q: %w", name, tree.ErrConflict)
	}

	if err := s.objects.PutMarker(ctx, owner, full); err != nil {
		return nil, fmt.Errorf("write folder marker: %w", err)
	}

	folder, err := s.repo.CreateFolder(ctx, owner, name, parent)
	if err != nil {
		// 并发下的败者：标记留给已存在的文件夹即可
		if errors.Is(err, tree.ErrConflict) {
			return nil, err
		}

		return nil, &PartialFailureError{Op: "create-folder", Completed: "folder marker written", Err: err}
	}

	s.emitFolderCreated(folder)

	return &types.CreateFolderResponse{
		FolderID:  folder.ID,
		Name:      folder.Name,
		Path:      folder.Path,
		FullPath:  folder.FullPath(),
		CreatedAt: folder.CreatedAt.UTC().Format(time.RFC3339),
		Success:   true,
	}, nil
}

// RenameFolder 重命名文件夹. 对象侧先搬移标记前缀，元数据级联随后
// 在单个事务内完成；同名重命名是空操作.
func (s *VaultService) RenameFolder(ctx context.Context, owner string, folderID uint, newName string) (*types.RenameFolderResponse, error) {
	newName = strings.TrimSpace(newName)
	if err := rule.ValidateFolderName(newName); err != nil {
		return nil, err
	}

	folder, err := s.repo.FolderByID(ctx, owner, folderID)
	if err != nil {
		return nil, err
	}

	oldName := folder.Name
	oldFull := folder.FullPath()

	if oldName == newName {
		return &types.RenameFolderResponse{
			FolderID: folder.ID,
			OldName:  oldName,
			NewName:  newName,
			FullPath: oldFull,
			Success:  true,
		}, nil
	}

	newFull := pathutil.Join(folder.Path, newName)

	// 冲突在触碰对象存储之前裁决，避免把两棵前缀树合并
	if _, err := s.repo.FolderByPath(ctx, owner, newFull); err == nil {
		return nil, fmt.Errorf("folder %q: %w", newName, tree.ErrConflict)
	}

	if err := s.relocateMarkers(ctx, owner, oldFull, newFull); err != nil {
		return nil, err
	}

	renamed, err := s.repo.RenameFolder(ctx, owner, folderID, newName)
	if err != nil {
		return nil, &PartialFailureError{Op: "rename-folder", Completed: "marker objects relocated", Err: err}
	}

	s.emitFolderMoved(renamed, oldFull)

	return &types.RenameFolderResponse{
		FolderID: renamed.ID,
		OldName:  oldName,
		NewName:  renamed.Name,
		FullPath: renamed.FullPath(),
		Success:  true,
	}, nil
}

// MoveFolder 将文件夹移动到 newParentPath 下（空为根目录）.
// 移入自身或后代返回 tree.ErrCycle；移动到当前父级是空操作.
func (s *VaultService) MoveFolder(ctx context.Context, owner string, folderID uint, newParentPath string) (*types.MoveFolderResponse, error) {
	newParentPath = pathutil.Normalize(newParentPath)
	if newParentPath != "" {
		if err := rule.ValidatePath(newParentPath); err != nil {
			return nil, err
		}
	}

	folder, err := s.repo.FolderByID(ctx, owner, folderID)
	if err != nil {
		return nil, err
	}

	oldFull := folder.FullPath()

	var newParent *model.Folder

	if newParentPath != "" {
		parent, err := s.repo.FolderByPath(ctx, owner, newParentPath)
		if err != nil {
			return nil, err
		}

		newParent = parent
	}

	if folder.Path == newParentPath {
		return &types.MoveFolderResponse{
			FolderID: folder.ID,
			OldPath:  oldFull,
			FullPath: oldFull,
			Success:  true,
		}, nil
	}

	// 环路与冲突都在触碰对象存储之前裁决；移入自身与移入后代同属环路
	if newParentPath == oldFull || strings.HasPrefix(newParentPath+"/", oldFull+"/") {
		return nil, fmt.Errorf("folder %q: %w", folder.Name, tree.ErrCycle)
	}

	newFull := pathutil.Join(newParentPath, folder.Name)
	if _, err := s.repo.FolderByPath(ctx, owner, newFull); err == nil {
		return nil, fmt.Errorf("folder %q: %w", folder.Name, tree.ErrConflict)
	}

	if err := s.relocateMarkers(ctx, owner, oldFull, newFull); err != nil {
		return nil, err
	}

	moved, err := s.repo.MoveFolder(ctx, owner, folderID, newParent)
	if err != nil {
		return nil, &PartialFailureError{Op: "move-folder", Completed: "marker objects relocated", Err: err}
	}

	s.emitFolderMoved(moved, oldFull)

	return &types.MoveFolderResponse{
		FolderID: moved.ID,
		OldPath:  oldFull,
		FullPath: moved.FullPath(),
		Success:  true,
	}, nil
}

// DeleteFolder 递归删除文件夹. 对象侧先清理（标记前缀 + 文件字节键），
// 元数据级联删除随后完成并返回计数.
func (s *VaultService) DeleteFolder(ctx context.Context, owner string, folderID uint) (*types.DeleteFolderResponse, error) {
	folder, err := s.repo.FolderByID(ctx, owner, folderID)
	if err != nil {
		return nil, err
	}

	full := folder.FullPath()

	keys, err := s.repo.SubtreeObjectKeys(ctx, owner, full)
	if err != nil {
		return nil, err
	}

	if _, err := s.objects.RemovePrefix(ctx, owner, s3c.MarkerKey(owner, full)); err != nil {
		return nil, fmt.Errorf("remove folder markers: %w", err)
	}

	if _, err := s.objects.RemoveKeys(ctx, owner, keys); err != nil {
		return nil, &PartialFailureError{Op: "delete-folder", Completed: "folder markers removed", Err: err}
	}

	stats, err := s.repo.DeleteFolderTree(ctx, owner, folderID)
	if err != nil {
		return nil, &PartialFailureError{Op: "delete-folder", Completed: "objects removed", Err: err}
	}

	nlog.Logger().Info().
		Str("owner", owner).
		Str("path", full).
		Int("folders", stats.FoldersDeleted).
		Int("files", stats.FilesDeleted).
		Msg("folder tree deleted")

	s.emitFolderDeleted(folder, stats.FoldersDeleted, stats.FilesDeleted)

	return &types.DeleteFolderResponse{
		FolderID:       folder.ID,
		FullPath:       full,
		FoldersDeleted: stats.FoldersDeleted,
		FilesDeleted:   stats.FilesDeleted,
		Success:        true,
	}, nil
}

// relocateMarkers 将 oldFull 的标记前缀搬移到 newFull 下.
func (s *VaultService) relocateMarkers(ctx context.Context, owner, oldFull, newFull string) error {
	src := s3c.MarkerKey(owner, oldFull)
	dst := s3c.MarkerKey(owner, newFull)

	moved, err := s.objects.CopyPrefix(ctx, owner, src, dst)
	if err != nil {
		return fmt.Errorf("relocate folder markers: %w", err)
	}

	metrics.ObjectsRelocated.Add(float64(moved))

	return nil
}
