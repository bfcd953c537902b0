// Package service 编排树仓库与对象存储，实现逐用户文件金库的
// 全部对外操作. 两侧之间没有跨存储事务：写入顺序与部分失败的
// 上报规则见各操作的说明.
package service

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/configs"
	ctxPkg "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/storage/mq"
	"github.com/yeisme/filevault/pkg/internal/tree"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/pathutil"
)

// RootFolderName 根目录的展示名，用于面包屑.
const RootFolderName = "Home"

// ObjectStore 抽象对象存储侧的操作，*s3.Store 为生产实现.
// 所有键都必须位于 owner 的前缀之内.
type ObjectStore interface {
	Put(ctx context.Context, owner, key string, r io.Reader, size int64, contentType string) error
	PutMarker(ctx context.Context, owner, folderPath string) error
	Get(ctx context.Context, owner, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, owner, key string) error
	CopyPrefix(ctx context.Context, owner, srcPrefix, dstPrefix string) (int, error)
	RemovePrefix(ctx context.Context, owner, prefix string) (int, error)
	RemoveKeys(ctx context.Context, owner string, keys []string) (int, error)
	ListPrefix(ctx context.Context, owner, prefix string) ([]minio.ObjectInfo, error)
}

// VaultService 文件金库服务.
type VaultService struct {
	repo    *tree.Repo
	objects ObjectStore
	cache   *cache.Cache
	mq      *mq.Client
	cfg     *configs.AppConfig
}

// NewVaultService 从请求上下文中装配服务.
func NewVaultService(c context.Context) *VaultService {
	mgr := ctxPkg.GetManager(c)

	svc := &VaultService{
		cfg: configs.GetConfig(),
	}

	if mgr != nil {
		svc.repo = tree.NewRepo(mgr.GetDBClient().GetDB())
		svc.objects = mgr.GetObjectStore()
		svc.mq = mgr.GetMQClient()

		if kvc := mgr.GetKVClient(); kvc != nil {
			svc.cache = cache.NewCache(kvc)
		}
	}

	return svc
}

// NewVaultServiceWith 显式注入依赖，供测试与后台任务使用.
func NewVaultServiceWith(repo *tree.Repo, objects ObjectStore, c *cache.Cache, cfg *configs.AppConfig) *VaultService {
	return &VaultService{
		repo:    repo,
		objects: objects,
		cache:   c,
		cfg:     cfg,
	}
}

// breadcrumbs 从根到 path 的导航链.
func breadcrumbs(path string) []types.Breadcrumb {
	crumbs := []types.Breadcrumb{{Name: RootFolderName, Path: ""}}

	acc := ""
	for _, segment := range pathutil.Split(path) {
		acc = pathutil.Join(acc, segment)
		crumbs = append(crumbs, types.Breadcrumb{Name: segment, Path: acc})
	}

	return crumbs
}

// folderInfo 模型到 DTO.
func folderInfo(f *model.Folder) types.FolderInfo {
	return types.FolderInfo{
		FolderID:  f.ID,
		Name:      f.Name,
		FullPath:  f.FullPath(),
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// fileInfo 模型到 DTO. 公开链接仅对公开文件暴露.
func fileInfo(f *model.StoredFile) types.FileInfo {
	info := types.FileInfo{
		FileID:     f.ID,
		Name:       f.OriginalName,
		Path:       f.Path,
		Size:       f.Size,
		HumanSize:  f.HumanSize(),
		MimeType:   f.ResolvedMimeType(),
		IsPublic:   f.IsPublic,
		UploadedAt: f.UploadedAt.UTC().Format(time.RFC3339),
	}

	if f.IsPublic {
		info.PublicLink = f.PublicLink
	}

	return info
}
