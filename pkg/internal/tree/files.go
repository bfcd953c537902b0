package tree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// maxSuffixAttempts 自动去重后缀的尝试上限.
const maxSuffixAttempts = 1000

// CreateFile 写入文件元数据行. 同目录重名返回 ErrConflict.
func (r *Repo) CreateFile(ctx context.Context, file *model.StoredFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("file %q: %w", file.OriginalName, ErrConflict)
		}

		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// FileByID 按 ID 查找用户的文件.
func (r *Repo) FileByID(ctx context.Context, owner string, id uint) (*model.StoredFile, error) {
	var file model.StoredFile

	err := r.db.WithContext(ctx).
		Where("owner = ? AND id = ?", owner, id).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file %d: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("find file: %w", err)
	}

	return &file, nil
}

// FileByPublicLink 按公开链接标识查找文件，不做 owner 过滤
// （链接即能力凭证）. 上层负责校验 IsPublic.
func (r *Repo) FileByPublicLink(ctx context.Context, link string) (*model.StoredFile, error) {
	var file model.StoredFile

	err := r.db.WithContext(ctx).
		Where("public_link = ?", link).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("public link: %w", ErrNotFound)
		}

		return nil, fmt.Errorf("find file by public link: %w", err)
	}

	return &file, nil
}

// RenameFile 修改显示名，对象键不变. 同名重命名是空操作.
func (r *Repo) RenameFile(ctx context.Context, owner string, id uint, newName string) (*model.StoredFile, error) {
	file, err := r.FileByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if file.OriginalName == newName {
		return file, nil
	}

	if err := r.db.WithContext(ctx).Model(file).Update("original_name", newName).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("file %q: %w", newName, ErrConflict)
		}

		return nil, fmt.Errorf("rename file: %w", err)
	}

	file.OriginalName = newName

	return file, nil
}

// MoveFile 将文件移动到另一个文件夹（nil 表示根目录），对象键不变.
// 移动到当前所在文件夹是空操作.
func (r *Repo) MoveFile(ctx context.Context, owner string, id uint, folder *model.Folder) (*model.StoredFile, error) {
	file, err := r.FileByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	var (
		newFolderID *uint
		newPath     string
	)

	if folder != nil {
		newFolderID = &folder.ID
		newPath = folder.FullPath()
	}

	if file.Path == newPath {
		return file, nil
	}

	updates := map[string]any{"folder_id": newFolderID, "path": newPath}
	if err := r.db.WithContext(ctx).Model(file).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("file %q: %w", file.OriginalName, ErrConflict)
		}

		return nil, fmt.Errorf("move file: %w", err)
	}

	file.FolderID = newFolderID
	file.Path = newPath

	return file, nil
}

// DeleteFile 删除文件元数据行，返回被删行（含对象键）.
func (r *Repo) DeleteFile(ctx context.Context, owner string, id uint) (*model.StoredFile, error) {
	file, err := r.FileByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(file).Error; err != nil {
		return nil, fmt.Errorf("delete file: %w", err)
	}

	return file, nil
}

// SetFilePublic 切换文件的公开状态.
func (r *Repo) SetFilePublic(ctx context.Context, owner string, id uint, public bool) (*model.StoredFile, error) {
	file, err := r.FileByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if file.IsPublic == public {
		return file, nil
	}

	if err := r.db.WithContext(ctx).Model(file).Update("is_public", public).Error; err != nil {
		return nil, fmt.Errorf("set file public: %w", err)
	}

	file.IsPublic = public

	return file, nil
}

// ListFilesInFolder 列出目录下的文件，按显示名排序. path 为文件夹
// 完整路径，空串为根目录.
func (r *Repo) ListFilesInFolder(ctx context.Context, owner, path string) ([]model.StoredFile, error) {
	var files []model.StoredFile

	err := r.db.WithContext(ctx).
		Where("owner = ? AND path = ?", owner, path).
		Order("original_name").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return files, nil
}

// SearchFiles 在用户全部文件中按显示名做大小写不敏感的子串匹配.
// 空查询返回空结果.
func (r *Repo) SearchFiles(ctx context.Context, owner, query string) ([]model.StoredFile, error) {
	if query == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var files []model.StoredFile

	err := r.db.WithContext(ctx).
		Where("owner = ? AND LOWER(original_name) LIKE ? ESCAPE '\\'", owner, pattern).
		Order("path, original_name").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}

	return files, nil
}

// AvailableFileName 返回目录下可用的显示名：无冲突时原样返回，
// 否则在扩展名前追加 " (n)" 直到可用.
func (r *Repo) AvailableFileName(ctx context.Context, owner, path, name string) (string, error) {
	taken, err := r.fileNameTaken(ctx, owner, path, name)
	if err != nil {
		return "", err
	}

	if !taken {
		return name, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 1; i <= maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)

		taken, err := r.fileNameTaken(ctx, owner, path, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("file %q: no free suffix: %w", name, ErrConflict)
}

// SubtreeObjectKeys 列出 full 子树下全部文件的对象键，不改动任何行.
// 供上层在元数据级联删除前先清理对象存储.
func (r *Repo) SubtreeObjectKeys(ctx context.Context, owner, full string) ([]string, error) {
	var files []model.StoredFile
	if err := subtreeCond(r.db.WithContext(ctx).Model(&model.StoredFile{}), owner, full).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list subtree object keys: %w", err)
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.ObjectKey)
	}

	return keys, nil
}

// FilesByOwner 返回用户的全部文件行，供后台对账比对对象键.
func (r *Repo) FilesByOwner(ctx context.Context, owner string) ([]model.StoredFile, error) {
	var files []model.StoredFile

	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files by owner: %w", err)
	}

	return files, nil
}

// Owners 返回有文件记录的全部用户，供后台对账遍历.
func (r *Repo) Owners(ctx context.Context) ([]string, error) {
	var owners []string

	err := r.db.WithContext(ctx).
		Model(&model.StoredFile{}).
		Distinct("owner").
		Pluck("owner", &owners).Error
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	return owners, nil
}

// ForEachFileBatch 按批遍历全部文件行，供后台对账使用.
func (r *Repo) ForEachFileBatch(ctx context.Context, batchSize int, fn func(files []model.StoredFile) error) error {
	var batch []model.StoredFile

	res := r.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	})
	if res.Error != nil {
		return fmt.Errorf("iterate files: %w", res.Error)
	}

	return nil
}

// fileNameTaken 判断目录下显示名是否已被占用.
func (r *Repo) fileNameTaken(ctx context.Context, owner, path, name string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.StoredFile{}).
		Where("owner = ? AND path = ? AND original_name = ?", owner, path, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check file name: %w", err)
	}

	return count > 0, nil
}
