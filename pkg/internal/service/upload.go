package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	"github.com/yeisme/filevault/pkg/internal/tree"
	"github.com/yeisme/filevault/pkg/internal/types"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/pathutil"
	"github.com/yeisme/filevault/pkg/rule"
)

// UploadItem 批量上传中的单个文件.
type UploadItem struct {
	Name     string
	Reader   io.Reader
	Size     int64
	MimeType string
	// RelPath 相对目标目录的子路径（目录上传时携带），可为空
	RelPath string
}

// createAttempts 名字冲突时重取可用名并重试入库的次数上限.
const createAttempts = 3

// UploadFiles 批量上传. 不同文件并发处理（并发度受配置限制），
// 单个文件内字节先写满、元数据行后建. 缺失的祖先目录逐段补建
// （含标记对象）. 同名策略由 upload.on_conflict 决定：suffix 自动
// 追加 " (n)"，reject 返回冲突. 逐文件错误不拖垮整批.
func (s *VaultService) UploadFiles(ctx context.Context, owner, basePath string, items []UploadItem) (*types.UploadFilesResponse, error) {
	basePath = pathutil.Normalize(basePath)
	if basePath != "" {
		if err := rule.ValidatePath(basePath); err != nil {
			return nil, err
		}
	}

	resp := &types.UploadFilesResponse{Success: true}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.uploadConcurrency())

	for _, item := range items {
		g.Go(func() error {
			info, err := s.uploadOne(gctx, owner, basePath, item)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				resp.Errors = append(resp.Errors, types.UploadFileError{
					Name:  item.Name,
					Error: err.Error(),
				})

				return nil
			}

			resp.Uploaded = append(resp.Uploaded, *info)
			resp.UploadedCount++

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resp, nil
}

// uploadOne 处理单个文件：目录补建、命名消歧、字节写入、元数据入库.
func (s *VaultService) uploadOne(ctx context.Context, owner, basePath string, item UploadItem) (*types.UploadedFileInfo, error) {
	name := strings.TrimSpace(item.Name)
	if err := rule.ValidateFileName(name); err != nil {
		return nil, err
	}

	if item.Size < 0 {
		return nil, fmt.Errorf("unknown file size")
	}

	if item.Size > s.maxFileSize() {
		return nil, fmt.Errorf("file exceeds size limit of %d bytes", s.maxFileSize())
	}

	dirPath := pathutil.Join(basePath, pathutil.Normalize(item.RelPath))
	if dirPath != "" {
		if err := rule.ValidatePath(dirPath); err != nil {
			return nil, err
		}
	}

	folder, createdPaths, err := s.repo.FindOrCreateFolderByPath(ctx, owner, dirPath)
	if err != nil {
		return nil, err
	}

	for _, p := range createdPaths {
		if err := s.objects.PutMarker(ctx, owner, p); err != nil {
			return nil, fmt.Errorf("write folder marker: %w", err)
		}
	}

	// 字节先落盘：全量写入对象存储后才建元数据行
	key := s3c.NewObjectKey(owner)
	if err := s.objects.Put(ctx, owner, key, item.Reader, item.Size, item.MimeType); err != nil {
		return nil, err
	}

	file, err := s.createFileRow(ctx, owner, dirPath, name, folder, key, item)
	if err != nil {
		// 元数据失败时回收已写入的字节
		if rmErr := s.objects.Remove(ctx, owner, key); rmErr != nil {
			nlog.Logger().Warn().Err(rmErr).Str("key", key).Msg("orphan object cleanup failed")
		}

		return nil, err
	}

	s.emitObjectStored(file)

	return &types.UploadedFileInfo{
		FileID: file.ID,
		Name:   file.OriginalName,
		Path:   file.Path,
		Size:   file.Size,
	}, nil
}

// createFileRow 按冲突策略确定显示名并写入元数据行.
// suffix 策略下与并发上传竞争失败时重取名字重试.
func (s *VaultService) createFileRow(ctx context.Context, owner, dirPath, name string, folder *model.Folder, key string, item UploadItem) (*model.StoredFile, error) {
	reject := s.cfg != nil && s.cfg.Upload.OnConflict == configs.ConflictReject

	for attempt := 0; attempt < createAttempts; attempt++ {
		finalName := name

		if !reject {
			available, err := s.repo.AvailableFileName(ctx, owner, dirPath, name)
			if err != nil {
				return nil, err
			}

			finalName = available
		}

		file := &model.StoredFile{
			Owner:        owner,
			Path:         dirPath,
			ObjectKey:    key,
			OriginalName: finalName,
			Size:         item.Size,
			MimeType:     item.MimeType,
			PublicLink:   uuid.NewString(),
			UploadedAt:   time.Now(),
		}

		if folder != nil {
			file.FolderID = &folder.ID
		}

		err := s.repo.CreateFile(ctx, file)
		if err == nil {
			return file, nil
		}

		if !errors.Is(err, tree.ErrConflict) || reject {
			return nil, err
		}
	}

	return nil, fmt.Errorf("file %q: %w", name, tree.ErrConflict)
}

func (s *VaultService) uploadConcurrency() int {
	if s.cfg != nil && s.cfg.Upload.Concurrency > 0 {
		return s.cfg.Upload.Concurrency
	}

	return configs.DefaultUploadConcurrency
}

func (s *VaultService) maxFileSize() int64 {
	if s.cfg != nil && s.cfg.Upload.MaxFileSize > 0 {
		return s.cfg.Upload.MaxFileSize
	}

	return configs.DefaultMaxFileSize
}
