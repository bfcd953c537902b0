package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/internal/tree"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// publicLinkTTL 公开链接解析结果的缓存时长.
const publicLinkTTL = 5 * time.Minute

// DownloadResult 下载流与随流元数据. 调用方负责关闭 Reader.
type DownloadResult struct {
	Reader   io.ReadCloser
	Name     string
	Size     int64
	MimeType string
}

// linkMeta 公开链接到文件的缓存映射.
type linkMeta struct {
	Owner     string `json:"owner"`
	FileID    uint   `json:"file_id"`
	ObjectKey string `json:"object_key"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
}

// Download 按 ID 下载自己的文件.
func (s *VaultService) Download(ctx context.Context, owner string, fileID uint) (*DownloadResult, error) {
	file, err := s.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}

	rc, err := s.objects.Get(ctx, owner, file.ObjectKey)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Reader:   rc,
		Name:     file.OriginalName,
		Size:     file.Size,
		MimeType: file.ResolvedMimeType(),
	}, nil
}

// PublicDownload 通过公开链接下载，不校验用户身份（链接即能力凭证）.
// 仅 is_public 的文件可达；链接解析结果短期缓存.
func (s *VaultService) PublicDownload(ctx context.Context, link string) (*DownloadResult, error) {
	meta, err := s.resolveLink(ctx, link)
	if err != nil {
		return nil, err
	}

	rc, err := s.objects.Get(ctx, meta.Owner, meta.ObjectKey)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Reader:   rc,
		Name:     meta.Name,
		Size:     meta.Size,
		MimeType: meta.MimeType,
	}, nil
}

// resolveLink 解析公开链接，优先命中缓存.
func (s *VaultService) resolveLink(ctx context.Context, link string) (*linkMeta, error) {
	resolve := func() (linkMeta, error) {
		file, err := s.repo.FileByPublicLink(ctx, link)
		if err != nil {
			return linkMeta{}, err
		}

		if !file.IsPublic {
			return linkMeta{}, fmt.Errorf("public link: %w", tree.ErrNotFound)
		}

		return linkMeta{
			Owner:     file.Owner,
			FileID:    file.ID,
			ObjectKey: file.ObjectKey,
			Name:      file.OriginalName,
			Size:      file.Size,
			MimeType:  file.ResolvedMimeType(),
		}, nil
	}

	if s.cache == nil {
		meta, err := resolve()
		if err != nil {
			return nil, err
		}

		return &meta, nil
	}

	meta, err := cache.GetOrSet(ctx, s.cache, linkCacheKey(link), resolve, publicLinkTTL)
	if err != nil {
		return nil, err
	}

	return &meta, nil
}

// invalidateLink 使公开链接的缓存解析失效.
func (s *VaultService) invalidateLink(ctx context.Context, link string) {
	if s.cache == nil || link == "" {
		return
	}

	if err := s.cache.Delete(ctx, linkCacheKey(link)); err != nil {
		nlog.Logger().Debug().Err(err).Msg("public link cache invalidation failed")
	}
}

func linkCacheKey(link string) string {
	return "pub:" + link
}
