package service

import (
	"context"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/pathutil"
	"github.com/yeisme/filevault/pkg/rule"
)

// RenameFile 修改文件显示名. 纯元数据操作：对象键与显示名解耦，
// 不触碰对象存储.
func (s *VaultService) RenameFile(ctx context.Context, owner string, fileID uint, newName string) (*types.RenameFileResponse, error) {
	newName = strings.TrimSpace(newName)
	if err := rule.ValidateFileName(newName); err != nil {
		return nil, err
	}

	file, err := s.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	oldName := file.OriginalName

	renamed, err := s.repo.RenameFile(ctx, owner, fileID, newName)
	if err != nil {
		return nil, err
	}

	if oldName != renamed.OriginalName {
		s.emitObjectRenamed(renamed, renamed.Path, oldName)
	}

	return &types.RenameFileResponse{
		FileID:  renamed.ID,
		OldName: oldName,
		NewName: renamed.OriginalName,
		Success: true,
	}, nil
}

// MoveFile 将文件移动到另一个目录. 同样是纯元数据操作.
func (s *VaultService) MoveFile(ctx context.Context, owner string, fileID uint, newFolderPath string) (*types.MoveFileResponse, error) {
	newFolderPath = pathutil.Normalize(newFolderPath)
	if newFolderPath != "" {
		if err := rule.ValidatePath(newFolderPath); err != nil {
			return nil, err
		}
	}

	file, err := s.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	oldPath := file.Path

	var folder *model.Folder

	if newFolderPath != "" {
		f, err := s.repo.FolderByPath(ctx, owner, newFolderPath)
		if err != nil {
			return nil, err
		}

		folder = f
	}

	moved, err := s.repo.MoveFile(ctx, owner, fileID, folder)
	if err != nil {
		return nil, err
	}

	if oldPath != moved.Path {
		s.emitObjectRenamed(moved, oldPath, moved.OriginalName)
	}

	return &types.MoveFileResponse{
		FileID:  moved.ID,
		OldPath: oldPath,
		NewPath: moved.Path,
		Success: true,
	}, nil
}

// DeleteFile 删除文件. 对象字节先删（不存在视为成功），元数据行随后.
func (s *VaultService) DeleteFile(ctx context.Context, owner string, fileID uint) (*types.DeleteFileResponse, error) {
	file, err := s.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	if err := s.objects.Remove(ctx, owner, file.ObjectKey); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteFile(ctx, owner, fileID)
	if err != nil {
		return nil, &PartialFailureError{Op: "delete-file", Completed: "object bytes removed", Err: err}
	}

	s.invalidateLink(ctx, deleted.PublicLink)
	s.emitObjectDeleted(deleted)

	return &types.DeleteFileResponse{
		FileID:  deleted.ID,
		Name:    deleted.OriginalName,
		Success: true,
	}, nil
}

// SetFilePublic 切换文件的公开状态. 关闭公开时使缓存的链接解析失效.
func (s *VaultService) SetFilePublic(ctx context.Context, owner string, fileID uint, public bool) (*types.SetFilePublicResponse, error) {
	file, err := s.repo.SetFilePublic(ctx, owner, fileID, public)
	if err != nil {
		return nil, err
	}

	if !public {
		s.invalidateLink(ctx, file.PublicLink)
	}

	resp := &types.SetFilePublicResponse{
		FileID:   file.ID,
		IsPublic: file.IsPublic,
		Success:  true,
	}

	if file.IsPublic {
		resp.PublicLink = file.PublicLink
	}

	return resp, nil
}

// Search 在用户全部文件中按显示名做大小写不敏感的子串搜索.
func (s *VaultService) Search(ctx context.Context, owner, query string) (*types.SearchResponse, error) {
	files, err := s.repo.SearchFiles(ctx, owner, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	resp := &types.SearchResponse{
		Query:   query,
		Files:   make([]types.FileInfo, 0, len(files)),
		Success: true,
	}

	for i := range files {
		resp.Files = append(resp.Files, fileInfo(&files[i]))
	}

	return resp, nil
}
