package s3

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	minio "github.com/minio/minio-go/v7"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/filevault/pkg/configs"
	nlog "github.com/yeisme/filevault/pkg/log"
)

const (
	// MarkerContentType 文件夹标记对象的内容类型.
	MarkerContentType = "application/x-directory"

	ownerPrefixFormat = "user-%s-files/"
	objectKeySegment  = "objects/"
	markerKeySegment  = "tree/"
)

// OwnerPrefix 返回用户的对象键前缀，所有属于该用户的键都在此前缀下.
func OwnerPrefix(owner string) string {
	return fmt.Sprintf(ownerPrefixFormat, owner)
}

// MarkerKey 文件夹标记对象键. folderPath 为规范化逻辑路径，空串表示根目录.
// 标记键位于 tree/ 段下且以 "/" 结尾；tree/ 与 objects/ 互不重叠，
// 任意文件夹名（包括 "objects"）的前缀操作都不会触及文件字节键.
func MarkerKey(owner, folderPath string) string {
	if folderPath == "" {
		return OwnerPrefix(owner) + markerKeySegment
	}

	return OwnerPrefix(owner) + markerKeySegment + folderPath + "/"
}

// NewObjectKey 为文件字节生成对象键. 键不包含显示名，
// 重命名/移动文件时无需搬移对象.
func NewObjectKey(owner string) string {
	return OwnerPrefix(owner) + objectKeySegment + ulid.Make().String()
}

// ObjectsPrefix 文件字节键所在的前缀，供对账遍历.
func ObjectsPrefix(owner string) string {
	return OwnerPrefix(owner) + objectKeySegment
}

// Store 在单一桶上按用户前缀组织对象，为上层提供文件夹语义的模拟：
// 标记对象表示文件夹，前缀复制/删除模拟重命名与递归删除.
type Store struct {
	cli    *Client
	bucket string
	conc   int
}

// NewStore 基于已连接的客户端创建对象仓库.
func NewStore(cli *Client) *Store {
	cfg := cli.GetConfig()

	conc := cfg.CopyConcurrency
	if conc <= 0 {
		conc = configs.DefaultS3CopyConcurrency
	}

	return &Store{cli: cli, bucket: cfg.Bucket, conc: conc}
}

// guard 校验键位于用户前缀之内.
func (s *Store) guard(owner, key string) error {
	if !strings.HasPrefix(key, OwnerPrefix(owner)) {
		return fmt.Errorf("key %q: %w", key, ErrKeyOutsidePrefix)
	}

	return nil
}

// Put 写入对象字节.
func (s *Store) Put(ctx context.Context, owner, key string, r io.Reader, size int64, contentType string) error {
	if err := s.guard(owner, key); err != nil {
		return err
	}

	_, err := s.cli.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	return nil
}

// PutMarker 写入零字节文件夹标记对象.
func (s *Store) PutMarker(ctx context.Context, owner, folderPath string) error {
	key := MarkerKey(owner, folderPath)

	return s.Put(ctx, owner, key, strings.NewReader(""), 0, MarkerContentType)
}

// Get 打开对象读取流. 调用方负责关闭.
func (s *Store) Get(ctx context.Context, owner, key string) (io.ReadCloser, error) {
	if err := s.guard(owner, key); err != nil {
		return nil, err
	}

	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return obj, nil
}

// Stat 查询对象元信息.
func (s *Store) Stat(ctx context.Context, owner, key string) (minio.ObjectInfo, error) {
	if err := s.guard(owner, key); err != nil {
		return minio.ObjectInfo{}, err
	}

	info, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return minio.ObjectInfo{}, fmt.Errorf("stat object %s: %w", key, err)
	}

	return info, nil
}

// Remove 删除单个对象. 对象不存在视为成功.
func (s *Store) Remove(ctx context.Context, owner, key string) error {
	if err := s.guard(owner, key); err != nil {
		return err
	}

	if err := s.cli.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if IsNotFound(err) {
			return nil
		}

		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// ListPrefix 列出前缀下全部对象（递归）.
func (s *Store) ListPrefix(ctx context.Context, owner, prefix string) ([]minio.ObjectInfo, error) {
	if err := s.guard(owner, prefix); err != nil {
		return nil, err
	}

	var infos []minio.ObjectInfo

	for obj := range s.cli.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list prefix %s: %w", prefix, obj.Err)
		}

		infos = append(infos, obj)
	}

	return infos, nil
}

// CopyPrefix 将 srcPrefix 下的全部对象复制到 dstPrefix 下并删除源对象，
// 以此模拟文件夹重命名/移动. 复制按固定并发执行，每个键先确认目标
// 存在后再删除源；源前缀为空视为成功. 返回搬移的对象数.
func (s *Store) CopyPrefix(ctx context.Context, owner, srcPrefix, dstPrefix string) (int, error) {
	if err := s.guard(owner, srcPrefix); err != nil {
		return 0, err
	}

	if err := s.guard(owner, dstPrefix); err != nil {
		return 0, err
	}

	objs, err := s.ListPrefix(ctx, owner, srcPrefix)
	if err != nil {
		return 0, err
	}

	if len(objs) == 0 {
		return 0, nil
	}

	var moved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.conc)

	for _, obj := range objs {
		g.Go(func() error {
			dstKey := dstPrefix + strings.TrimPrefix(obj.Key, srcPrefix)

			if _, err := s.cli.CopyObject(gctx,
				minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
				minio.CopySrcOptions{Bucket: s.bucket, Object: obj.Key},
			); err != nil {
				return fmt.Errorf("copy object %s -> %s: %w", obj.Key, dstKey, err)
			}

			// 确认目标写入成功后才删除源
			if _, err := s.cli.StatObject(gctx, s.bucket, dstKey, minio.StatObjectOptions{}); err != nil {
				return fmt.Errorf("verify copied object %s: %w", dstKey, err)
			}

			if err := s.cli.RemoveObject(gctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil && !IsNotFound(err) {
				return fmt.Errorf("remove source object %s: %w", obj.Key, err)
			}

			moved.Add(1)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(moved.Load()), err
	}

	nlog.Logger().Debug().
		Str("src", srcPrefix).
		Str("dst", dstPrefix).
		Int64("moved", moved.Load()).
		Msg("prefix relocated")

	return int(moved.Load()), nil
}

// forwardListing 将列举结果转发到删除通道，遇到列举错误立即停止并返回.
// 不关闭 dst，由调用方负责.
func forwardListing(src <-chan minio.ObjectInfo, dst chan<- minio.ObjectInfo, listed *atomic.Int64) error {
	for obj := range src {
		if obj.Err != nil {
			return obj.Err
		}

		listed.Add(1)
		dst <- obj
	}

	return nil
}

// RemovePrefix 递归删除前缀下全部对象. 前缀为空视为成功，返回删除数.
// 列举中断或任一对象删除失败都会返回错误，此时删除数为已确认的部分.
func (s *Store) RemovePrefix(ctx context.Context, owner, prefix string) (int, error) {
	if err := s.guard(owner, prefix); err != nil {
		return 0, err
	}

	objCh := make(chan minio.ObjectInfo)

	var (
		listed  atomic.Int64
		listErr error
	)

	go func() {
		listErr = forwardListing(s.cli.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}), objCh, &listed)

		close(objCh)
	}()

	var failed int

	for res := range s.cli.RemoveObjects(ctx, s.bucket, objCh, minio.RemoveObjectsOptions{}) {
		if res.Err != nil && !IsNotFound(res.Err) {
			failed++

			nlog.Logger().Warn().Err(res.Err).Str("key", res.ObjectName).Msg("remove object failed")
		}
	}

	removed := int(listed.Load()) - failed

	if listErr != nil {
		return removed, fmt.Errorf("remove prefix %s: list objects: %w", prefix, listErr)
	}

	if failed > 0 {
		return removed, fmt.Errorf("remove prefix %s: %d object(s) failed", prefix, failed)
	}

	return removed, nil
}

// RemoveKeys 批量删除指定键. 不存在的键视为已删除.
func (s *Store) RemoveKeys(ctx context.Context, owner string, keys []string) (int, error) {
	for _, key := range keys {
		if err := s.guard(owner, key); err != nil {
			return 0, err
		}
	}

	if len(keys) == 0 {
		return 0, nil
	}

	objCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objCh <- minio.ObjectInfo{Key: key}
	}

	close(objCh)

	var failed int

	for res := range s.cli.RemoveObjects(ctx, s.bucket, objCh, minio.RemoveObjectsOptions{}) {
		if res.Err != nil && !IsNotFound(res.Err) {
			failed++

			nlog.Logger().Warn().Err(res.Err).Str("key", res.ObjectName).Msg("remove object failed")
		}
	}

	removed := len(keys) - failed
	if failed > 0 {
		return removed, fmt.Errorf("remove keys: %d object(s) failed", failed)
	}

	return removed, nil
}
