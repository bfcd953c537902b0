package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	"github.com/yeisme/filevault/pkg/internal/tree"
	"github.com/yeisme/filevault/pkg/rule"
)

// fakeStore 内存对象存储，键语义与生产实现一致.
type fakeStore struct {
	mu   sync.Mutex
	objs map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objs: map[string]fakeObject{}}
}

func (f *fakeStore) guard(owner, key string) error {
	if !strings.HasPrefix(key, s3c.OwnerPrefix(owner)) {
		return fmt.Errorf("key %q: %w", key, s3c.ErrKeyOutsidePrefix)
	}

	return nil
}

func (f *fakeStore) Put(_ context.Context, owner, key string, r io.Reader, _ int64, contentType string) error {
	if err := f.guard(owner, key); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objs[key] = fakeObject{data: data, contentType: contentType}

	return nil
}

func (f *fakeStore) PutMarker(ctx context.Context, owner, folderPath string) error {
	return f.Put(ctx, owner, s3c.MarkerKey(owner, folderPath), strings.NewReader(""), 0, s3c.MarkerContentType)
}

func (f *fakeStore) Get(_ context.Context, owner, key string) (io.ReadCloser, error) {
	if err := f.guard(owner, key); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objs[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (f *fakeStore) Remove(_ context.Context, owner, key string) error {
	if err := f.guard(owner, key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objs, key)

	return nil
}

func (f *fakeStore) CopyPrefix(_ context.Context, owner, srcPrefix, dstPrefix string) (int, error) {
	if err := f.guard(owner, srcPrefix); err != nil {
		return 0, err
	}

	if err := f.guard(owner, dstPrefix); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	moved := 0

	for key, obj := range f.objs {
		if !strings.HasPrefix(key, srcPrefix) {
			continue
		}

		f.objs[dstPrefix+strings.TrimPrefix(key, srcPrefix)] = obj
		delete(f.objs, key)
		moved++
	}

	return moved, nil
}

func (f *fakeStore) RemovePrefix(_ context.Context, owner, prefix string) (int, error) {
	if err := f.guard(owner, prefix); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0

	for key := range f.objs {
		if strings.HasPrefix(key, prefix) {
			delete(f.objs, key)
			removed++
		}
	}

	return removed, nil
}

func (f *fakeStore) RemoveKeys(_ context.Context, owner string, keys []string) (int, error) {
	for _, key := range keys {
		if err := f.guard(owner, key); err != nil {
			return 0, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.objs, key)
	}

	return len(keys), nil
}

func (f *fakeStore) ListPrefix(_ context.Context, owner, prefix string) ([]minio.ObjectInfo, error) {
	if err := f.guard(owner, prefix); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var infos []minio.ObjectInfo

	for key, obj := range f.objs {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, minio.ObjectInfo{Key: key, Size: int64(len(obj.data))})
		}
	}

	return infos, nil
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objs[key]

	return ok
}

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Upload: configs.UploadConfig{
			OnConflict:  configs.ConflictSuffix,
			MaxFileSize: configs.DefaultMaxFileSize,
			Concurrency: 2,
		},
	}
}

func newTestVault(t *testing.T, cfg *configs.AppConfig) (*VaultService, *fakeStore) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(&model.Folder{}, &model.StoredFile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := newFakeStore()

	return NewVaultServiceWith(tree.NewRepo(db), store, nil, cfg), store
}

const owner = "alice@example.com"

func upload(t *testing.T, svc *VaultService, basePath, name, content string) uint {
	t.Helper()

	resp, err := svc.UploadFiles(context.Background(), owner, basePath, []UploadItem{{
		Name:     name,
		Reader:   strings.NewReader(content),
		Size:     int64(len(content)),
		MimeType: "text/plain",
	}})
	if err != nil {
		t.Fatalf("upload %q: %v", name, err)
	}

	if len(resp.Errors) != 0 {
		t.Fatalf("upload %q errors: %+v", name, resp.Errors)
	}

	return resp.Uploaded[0].FileID
}

func TestCreateFolderWritesMarker(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	resp, err := svc.CreateFolder(ctx, owner, "docs", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if !resp.Success || resp.FullPath != "docs" {
		t.Fatalf("resp = %+v", resp)
	}

	if !store.has(s3c.MarkerKey(owner, "docs")) {
		t.Fatal("marker object missing")
	}

	// 重名冲突
	if _, err := svc.CreateFolder(ctx, owner, "docs", ""); !errors.Is(err, tree.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// 非法名字不触碰对象存储
	if _, err := svc.CreateFolder(ctx, owner, "bad/name", ""); rule.ReasonOf(err) != rule.ReasonForbiddenChar {
		t.Fatalf("expected forbidden-char validation error, got %v", err)
	}

	// 父路径不存在
	if _, err := svc.CreateFolder(ctx, owner, "sub", "missing"); !errors.Is(err, tree.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadSuffixPolicy(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	upload(t, svc, "", "report.pdf", "v1")

	resp, err := svc.UploadFiles(ctx, owner, "", []UploadItem{{
		Name:     "report.pdf",
		Reader:   strings.NewReader("v2"),
		Size:     2,
		MimeType: "application/pdf",
	}})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if resp.UploadedCount != 1 || resp.Uploaded[0].Name != "report (1).pdf" {
		t.Fatalf("resp = %+v", resp)
	}

	// 两份字节都在各自的对象键下
	listing, err := store.ListPrefix(ctx, owner, s3c.ObjectsPrefix(owner))
	if err != nil || len(listing) != 2 {
		t.Fatalf("object listing = %v, %v", listing, err)
	}
}

func TestUploadRejectPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.OnConflict = configs.ConflictReject

	svc, _ := newTestVault(t, cfg)
	ctx := context.Background()

	upload(t, svc, "", "report.pdf", "v1")

	resp, err := svc.UploadFiles(ctx, owner, "", []UploadItem{{
		Name:     "report.pdf",
		Reader:   strings.NewReader("v2"),
		Size:     2,
		MimeType: "application/pdf",
	}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if resp.UploadedCount != 0 || len(resp.Errors) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestUploadCreatesAncestorsWithMarkers(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	resp, err := svc.UploadFiles(ctx, owner, "docs", []UploadItem{{
		Name:     "notes.txt",
		Reader:   strings.NewReader("hello"),
		Size:     5,
		MimeType: "text/plain",
		RelPath:  "2024/q3",
	}})
	if err != nil || resp.UploadedCount != 1 {
		t.Fatalf("upload: %+v, %v", resp, err)
	}

	if resp.Uploaded[0].Path != "docs/2024/q3" {
		t.Fatalf("path = %q", resp.Uploaded[0].Path)
	}

	for _, p := range []string{"docs", "docs/2024", "docs/2024/q3"} {
		if !store.has(s3c.MarkerKey(owner, p)) {
			t.Fatalf("marker for %q missing", p)
		}
	}

	listing, err := svc.ListContents(ctx, owner, "docs/2024/q3")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(listing.Files) != 1 || listing.Files[0].Name != "notes.txt" {
		t.Fatalf("listing = %+v", listing)
	}
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxFileSize = 4

	svc, _ := newTestVault(t, cfg)

	resp, err := svc.UploadFiles(context.Background(), owner, "", []UploadItem{{
		Name:   "big.bin",
		Reader: strings.NewReader("too big"),
		Size:   7,
	}})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if resp.UploadedCount != 0 || len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0].Error, "size limit") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRenameFolderRelocatesMarkers(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, owner, "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateFolder(ctx, owner, "b", "a"); err != nil {
		t.Fatalf("create: %v", err)
	}

	fileID := upload(t, svc, "a/b", "deep.txt", "data")

	folder, err := svc.repo.FolderByPath(ctx, owner, "a")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	resp, err := svc.RenameFolder(ctx, owner, folder.ID, "a2")
	if err != nil || resp.FullPath != "a2" {
		t.Fatalf("rename: %+v, %v", resp, err)
	}

	if store.has(s3c.MarkerKey(owner, "a")) || store.has(s3c.MarkerKey(owner, "a/b")) {
		t.Fatal("old markers still present")
	}

	if !store.has(s3c.MarkerKey(owner, "a2")) || !store.has(s3c.MarkerKey(owner, "a2/b")) {
		t.Fatal("new markers missing")
	}

	// 文件字节的对象键与路径无关，重命名后仍可下载
	dl, err := svc.Download(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("download after rename: %v", err)
	}

	defer dl.Reader.Close()

	data, _ := io.ReadAll(dl.Reader)
	if string(data) != "data" {
		t.Fatalf("data = %q", data)
	}
}

func TestMoveFolderCycleAndConflict(t *testing.T) {
	svc, _ := newTestVault(t, testConfig())
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, owner, "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateFolder(ctx, owner, "b", "a"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateFolder(ctx, owner, "dst", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := svc.repo.FolderByPath(ctx, owner, "a")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if _, err := svc.MoveFolder(ctx, owner, a.ID, "a/b"); !errors.Is(err, tree.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}

	if _, err := svc.MoveFolder(ctx, owner, a.ID, "a"); !errors.Is(err, tree.ErrCycle) {
		t.Fatalf("move into self: expected ErrCycle, got %v", err)
	}

	resp, err := svc.MoveFolder(ctx, owner, a.ID, "dst")
	if err != nil || resp.FullPath != "dst/a" {
		t.Fatalf("move: %+v, %v", resp, err)
	}

	// 目标下已有同名
	if _, err := svc.CreateFolder(ctx, owner, "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	a2, err := svc.repo.FolderByPath(ctx, owner, "a")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if _, err := svc.MoveFolder(ctx, owner, a2.ID, "dst"); !errors.Is(err, tree.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteFolderRemovesBothSides(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, owner, "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateFolder(ctx, owner, "b", "a"); err != nil {
		t.Fatalf("create: %v", err)
	}

	upload(t, svc, "a", "one.txt", "1")
	upload(t, svc, "a/b", "two.txt", "2")
	keep := upload(t, svc, "", "keep.txt", "k")

	a, err := svc.repo.FolderByPath(ctx, owner, "a")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	resp, err := svc.DeleteFolder(ctx, owner, a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if resp.FoldersDeleted != 2 || resp.FilesDeleted != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", resp.FoldersDeleted, resp.FilesDeleted)
	}

	if store.has(s3c.MarkerKey(owner, "a")) || store.has(s3c.MarkerKey(owner, "a/b")) {
		t.Fatal("markers not removed")
	}

	// 树内文件字节已清理，树外的保留
	listing, err := store.ListPrefix(ctx, owner, s3c.ObjectsPrefix(owner))
	if err != nil || len(listing) != 1 {
		t.Fatalf("remaining objects = %v, %v", listing, err)
	}

	if _, err := svc.Download(ctx, owner, keep); err != nil {
		t.Fatalf("unrelated file unreachable: %v", err)
	}
}

func TestDeleteFileAbsentObjectIsSuccess(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	fileID := upload(t, svc, "", "gone.txt", "data")

	file, err := svc.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// 对象侧已经丢失
	if err := store.Remove(ctx, owner, file.ObjectKey); err != nil {
		t.Fatalf("remove: %v", err)
	}

	resp, err := svc.DeleteFile(ctx, owner, fileID)
	if err != nil || !resp.Success {
		t.Fatalf("delete: %+v, %v", resp, err)
	}
}

func TestPublicDownloadLifecycle(t *testing.T) {
	svc, _ := newTestVault(t, testConfig())
	ctx := context.Background()

	fileID := upload(t, svc, "", "shared.txt", "secret")

	file, err := svc.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// 未公开的链接不可达
	if _, err := svc.PublicDownload(ctx, file.PublicLink); !errors.Is(err, tree.ErrNotFound) {
		t.Fatalf("private link reachable: %v", err)
	}

	pub, err := svc.SetFilePublic(ctx, owner, fileID, true)
	if err != nil || pub.PublicLink == "" {
		t.Fatalf("set public: %+v, %v", pub, err)
	}

	dl, err := svc.PublicDownload(ctx, pub.PublicLink)
	if err != nil {
		t.Fatalf("public download: %v", err)
	}

	defer dl.Reader.Close()

	data, _ := io.ReadAll(dl.Reader)
	if string(data) != "secret" || dl.Name != "shared.txt" {
		t.Fatalf("dl = %q %q", data, dl.Name)
	}

	// 关闭公开后再次不可达
	if _, err := svc.SetFilePublic(ctx, owner, fileID, false); err != nil {
		t.Fatalf("set private: %v", err)
	}

	if _, err := svc.PublicDownload(ctx, pub.PublicLink); !errors.Is(err, tree.ErrNotFound) {
		t.Fatalf("revoked link reachable: %v", err)
	}
}

func TestListContentsBreadcrumbs(t *testing.T) {
	svc, _ := newTestVault(t, testConfig())
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, owner, "docs", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateFolder(ctx, owner, "2024", "docs"); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.ListContents(ctx, owner, "docs/2024")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []struct{ name, path string }{
		{RootFolderName, ""},
		{"docs", "docs"},
		{"2024", "docs/2024"},
	}

	if len(resp.Breadcrumbs) != len(want) {
		t.Fatalf("breadcrumbs = %+v", resp.Breadcrumbs)
	}

	for i, w := range want {
		if resp.Breadcrumbs[i].Name != w.name || resp.Breadcrumbs[i].Path != w.path {
			t.Fatalf("crumb %d = %+v, want %+v", i, resp.Breadcrumbs[i], w)
		}
	}

	if _, err := svc.ListContents(ctx, owner, "missing"); !errors.Is(err, tree.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameFileKeepsObjectKey(t *testing.T) {
	svc, _ := newTestVault(t, testConfig())
	ctx := context.Background()

	fileID := upload(t, svc, "", "draft.txt", "text")

	before, err := svc.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	resp, err := svc.RenameFile(ctx, owner, fileID, "final.txt")
	if err != nil || resp.NewName != "final.txt" {
		t.Fatalf("rename: %+v, %v", resp, err)
	}

	after, err := svc.repo.FileByID(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if after.ObjectKey != before.ObjectKey {
		t.Fatal("object key changed on file rename")
	}

	// 非法新名
	if _, err := svc.RenameFile(ctx, owner, fileID, "bad|name.txt"); rule.ReasonOf(err) != rule.ReasonForbiddenChar {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReconcile(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	ok := upload(t, svc, "", "ok.txt", "fine")
	danglingID := upload(t, svc, "", "dangling.txt", "gone")

	dangling, err := svc.repo.FileByID(ctx, owner, danglingID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// 一侧丢对象，另一侧多出孤儿对象
	if err := store.Remove(ctx, owner, dangling.ObjectKey); err != nil {
		t.Fatalf("remove: %v", err)
	}

	orphanKey := s3c.ObjectsPrefix(owner) + "orphan"
	if err := store.Put(ctx, owner, orphanKey, strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("put orphan: %v", err)
	}

	report, err := svc.Reconcile(ctx, false)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(report.DanglingFiles) != 1 || report.DanglingFiles[0] != danglingID {
		t.Fatalf("dangling = %v", report.DanglingFiles)
	}

	if len(report.OrphanObjects) != 1 || report.OrphanObjects[0] != orphanKey {
		t.Fatalf("orphans = %v", report.OrphanObjects)
	}

	// 修复后两侧一致
	if _, err := svc.Reconcile(ctx, true); err != nil {
		t.Fatalf("repair: %v", err)
	}

	if _, err := svc.repo.FileByID(ctx, owner, danglingID); !errors.Is(err, tree.ErrNotFound) {
		t.Fatalf("dangling row survived repair: %v", err)
	}

	if store.has(orphanKey) {
		t.Fatal("orphan object survived repair")
	}

	if _, err := svc.Download(ctx, owner, ok); err != nil {
		t.Fatalf("healthy file affected by repair: %v", err)
	}
}

func TestFolderNamedObjectsLeavesFileBytes(t *testing.T) {
	svc, store := newTestVault(t, testConfig())
	ctx := context.Background()

	fileID := upload(t, svc, "", "keep.txt", "precious")

	if _, err := svc.CreateFolder(ctx, owner, "objects", ""); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	folder, err := svc.repo.FolderByPath(ctx, owner, "objects")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// 与对象键段重名的文件夹，重命名不得搬移任何字节对象
	if _, err := svc.RenameFolder(ctx, owner, folder.ID, "archive"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if _, err := svc.RenameFolder(ctx, owner, folder.ID, "objects"); err != nil {
		t.Fatalf("rename back: %v", err)
	}

	resp, err := svc.DeleteFolder(ctx, owner, folder.ID)
	if err != nil {
		t.Fatalf("delete folder: %v", err)
	}

	if resp.FoldersDeleted != 1 || resp.FilesDeleted != 0 {
		t.Fatalf("resp = %+v", resp)
	}

	// 根目录文件与被删文件夹无关，字节对象必须原样保留
	dl, err := svc.Download(ctx, owner, fileID)
	if err != nil {
		t.Fatalf("download after unrelated folder delete: %v", err)
	}

	defer dl.Reader.Close()

	data, _ := io.ReadAll(dl.Reader)
	if string(data) != "precious" {
		t.Fatalf("data = %q", data)
	}

	listing, err := store.ListPrefix(ctx, owner, s3c.ObjectsPrefix(owner))
	if err != nil || len(listing) != 1 {
		t.Fatalf("object listing = %v, %v", listing, err)
	}
}
