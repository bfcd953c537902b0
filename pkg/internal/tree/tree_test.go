package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/filevault/pkg/internal/model"
)

func newTestRepo(t *testing.T) *Repo {
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

	return NewRepo(db)
}

func mustFolder(t *testing.T, r *Repo, owner, name string, parent *model.Folder) *model.Folder {
	t.Helper()

	folder, err := r.CreateFolder(context.Background(), owner, name, parent)
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}

	return folder
}

func mustFile(t *testing.T, r *Repo, owner, name string, folder *model.Folder) *model.StoredFile {
	t.Helper()

	file := &model.StoredFile{
		Owner:        owner,
		OriginalName: name,
		ObjectKey:    "user-" + owner + "-files/objects/" + uuid.NewString(),
		PublicLink:   uuid.NewString(),
		Size:         42,
		UploadedAt:   time.Now(),
	}

	if folder != nil {
		file.FolderID = &folder.ID
		file.Path = folder.FullPath()
	}

	if err := r.CreateFile(context.Background(), file); err != nil {
		t.Fatalf("create file %q: %v", name, err)
	}

	return file
}

func TestCreateFolderConflict(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mustFolder(t, r, "alice@example.com", "docs", nil)

	if _, err := r.CreateFolder(ctx, "alice@example.com", "docs", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// 大小写不同视为不同名字
	if _, err := r.CreateFolder(ctx, "alice@example.com", "Docs", nil); err != nil {
		t.Fatalf("case-differing sibling rejected: %v", err)
	}

	// 不同用户的同名互不冲突
	if _, err := r.CreateFolder(ctx, "bob@example.com", "docs", nil); err != nil {
		t.Fatalf("cross-owner same name rejected: %v", err)
	}

	// 不同父级下的同名互不冲突
	parent := mustFolder(t, r, "alice@example.com", "archive", nil)
	if _, err := r.CreateFolder(ctx, "alice@example.com", "docs", parent); err != nil {
		t.Fatalf("same name under other parent rejected: %v", err)
	}
}

func TestRenameFolderCascadesPaths(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	a := mustFolder(t, r, owner, "a", nil)
	b := mustFolder(t, r, owner, "b", a)
	c := mustFolder(t, r, owner, "c", b)
	deep := mustFile(t, r, owner, "deep.txt", c)
	direct := mustFile(t, r, owner, "direct.txt", a)

	renamed, err := r.RenameFolder(ctx, owner, a.ID, "a2")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}

	if renamed.FullPath() != "a2" {
		t.Fatalf("full path = %q", renamed.FullPath())
	}

	gotC, err := r.FolderByPath(ctx, owner, "a2/b/c")
	if err != nil {
		t.Fatalf("descendant not relocated: %v", err)
	}

	if gotC.ID != c.ID {
		t.Fatalf("relocated folder id = %d, want %d", gotC.ID, c.ID)
	}

	gotDeep, err := r.FileByID(ctx, owner, deep.ID)
	if err != nil {
		t.Fatalf("find deep file: %v", err)
	}

	if gotDeep.Path != "a2/b/c" {
		t.Fatalf("deep file path = %q", gotDeep.Path)
	}

	gotDirect, err := r.FileByID(ctx, owner, direct.ID)
	if err != nil {
		t.Fatalf("find direct file: %v", err)
	}

	if gotDirect.Path != "a2" {
		t.Fatalf("direct file path = %q", gotDirect.Path)
	}

	// 对象键不随重命名改变
	if gotDeep.ObjectKey != deep.ObjectKey {
		t.Fatal("object key changed on rename")
	}
}

func TestRenameFolderNoOpAndConflict(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	a := mustFolder(t, r, owner, "a", nil)
	mustFolder(t, r, owner, "b", nil)

	got, err := r.RenameFolder(ctx, owner, a.ID, "a")
	if err != nil {
		t.Fatalf("same-name rename must be a no-op: %v", err)
	}

	if got.Name != "a" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := r.RenameFolder(ctx, owner, a.ID, "b"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMoveFolder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	a := mustFolder(t, r, owner, "a", nil)
	b := mustFolder(t, r, owner, "b", a)
	mustFolder(t, r, owner, "c", b)
	dst := mustFolder(t, r, owner, "dst", nil)

	// 移入自身后代
	if _, err := r.MoveFolder(ctx, owner, a.ID, b); !errors.Is(err, ErrCycle) {
		t.Fatalf("move into own subtree: expected ErrCycle, got %v", err)
	}

	// 移入自身
	if _, err := r.MoveFolder(ctx, owner, a.ID, a); !errors.Is(err, ErrCycle) {
		t.Fatalf("move into self: expected ErrCycle, got %v", err)
	}

	// 移动到当前父级是空操作
	if _, err := r.MoveFolder(ctx, owner, b.ID, a); err != nil {
		t.Fatalf("move to current parent: %v", err)
	}

	moved, err := r.MoveFolder(ctx, owner, b.ID, dst)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if moved.FullPath() != "dst/b" {
		t.Fatalf("moved path = %q", moved.FullPath())
	}

	if _, err := r.FolderByPath(ctx, owner, "dst/b/c"); err != nil {
		t.Fatalf("descendant not relocated: %v", err)
	}

	if _, err := r.FolderByPath(ctx, owner, "a/b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old path still resolves: %v", err)
	}

	// 移回根目录
	back, err := r.MoveFolder(ctx, owner, b.ID, nil)
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}

	if back.FullPath() != "b" {
		t.Fatalf("path after move to root = %q", back.FullPath())
	}
}

func TestMoveFolderConflictAtDestination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	src := mustFolder(t, r, owner, "x", nil)
	dst := mustFolder(t, r, owner, "dst", nil)
	mustFolder(t, r, owner, "x", dst)

	if _, err := r.MoveFolder(ctx, owner, src.ID, dst); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteFolderTreeCounts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	a := mustFolder(t, r, owner, "a", nil)
	b := mustFolder(t, r, owner, "b", a)
	f1 := mustFile(t, r, owner, "one.txt", a)
	f2 := mustFile(t, r, owner, "two.txt", b)
	keep := mustFile(t, r, owner, "keep.txt", nil)

	stats, err := r.DeleteFolderTree(ctx, owner, a.ID)
	if err != nil {
		t.Fatalf("delete tree: %v", err)
	}

	if stats.FoldersDeleted != 2 || stats.FilesDeleted != 2 {
		t.Fatalf("stats = %d folders / %d files, want 2/2", stats.FoldersDeleted, stats.FilesDeleted)
	}

	keys := map[string]bool{}
	for _, k := range stats.ObjectKeys {
		keys[k] = true
	}

	if !keys[f1.ObjectKey] || !keys[f2.ObjectKey] {
		t.Fatalf("object keys missing from stats: %v", stats.ObjectKeys)
	}

	if _, err := r.FolderByID(ctx, owner, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("folder still present: %v", err)
	}

	if _, err := r.FileByID(ctx, owner, f2.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file still present: %v", err)
	}

	// 树外的文件不受影响
	if _, err := r.FileByID(ctx, owner, keep.ID); err != nil {
		t.Fatalf("unrelated file deleted: %v", err)
	}
}

func TestFindOrCreateFolderByPath(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	folder, created, err := r.FindOrCreateFolderByPath(ctx, owner, "a/b/c")
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}

	if folder.FullPath() != "a/b/c" {
		t.Fatalf("path = %q", folder.FullPath())
	}

	if len(created) != 3 {
		t.Fatalf("created = %v, want 3 paths", created)
	}

	// 再次调用不应新建
	again, created, err := r.FindOrCreateFolderByPath(ctx, owner, "a/b/c")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if len(created) != 0 || again.ID != folder.ID {
		t.Fatalf("second call created %v, id %d vs %d", created, again.ID, folder.ID)
	}

	// 根目录
	root, created, err := r.FindOrCreateFolderByPath(ctx, owner, "")
	if err != nil || root != nil || created != nil {
		t.Fatalf("root resolution = %v, %v, %v", root, created, err)
	}
}

func TestCrossOwnerIsolation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	folder := mustFolder(t, r, "alice@example.com", "docs", nil)
	file := mustFile(t, r, "alice@example.com", "report.pdf", folder)

	if _, err := r.FolderByID(ctx, "bob@example.com", folder.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("folder visible to other owner: %v", err)
	}

	if _, err := r.FileByID(ctx, "bob@example.com", file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file visible to other owner: %v", err)
	}

	results, err := r.SearchFiles(ctx, "bob@example.com", "report")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("search leaked %d rows across owners", len(results))
	}
}

func TestSearchFiles(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	folder := mustFolder(t, r, owner, "docs", nil)
	mustFile(t, r, owner, "Annual Report.pdf", folder)
	mustFile(t, r, owner, "notes.txt", nil)
	mustFile(t, r, owner, "100% done.txt", nil)

	results, err := r.SearchFiles(ctx, owner, "report")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results) != 1 || results[0].OriginalName != "Annual Report.pdf" {
		t.Fatalf("results = %+v", results)
	}

	// 空查询返回空
	results, err = r.SearchFiles(ctx, owner, "")
	if err != nil || len(results) != 0 {
		t.Fatalf("empty query: %v, %d rows", err, len(results))
	}

	// 通配符按字面匹配
	results, err = r.SearchFiles(ctx, owner, "100%")
	if err != nil {
		t.Fatalf("search literal percent: %v", err)
	}

	if len(results) != 1 || results[0].OriginalName != "100% done.txt" {
		t.Fatalf("literal percent results = %+v", results)
	}
}

func TestAvailableFileName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	name, err := r.AvailableFileName(ctx, owner, "", "report.pdf")
	if err != nil || name != "report.pdf" {
		t.Fatalf("free name = %q, %v", name, err)
	}

	mustFile(t, r, owner, "report.pdf", nil)

	name, err = r.AvailableFileName(ctx, owner, "", "report.pdf")
	if err != nil || name != "report (1).pdf" {
		t.Fatalf("first suffix = %q, %v", name, err)
	}

	mustFile(t, r, owner, "report (1).pdf", nil)

	name, err = r.AvailableFileName(ctx, owner, "", "report.pdf")
	if err != nil || name != "report (2).pdf" {
		t.Fatalf("second suffix = %q, %v", name, err)
	}
}

func TestFileRenameMoveDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	folder := mustFolder(t, r, owner, "docs", nil)
	file := mustFile(t, r, owner, "draft.txt", nil)
	mustFile(t, r, owner, "final.txt", nil)

	// 重名拒绝
	if _, err := r.RenameFile(ctx, owner, file.ID, "final.txt"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	renamed, err := r.RenameFile(ctx, owner, file.ID, "draft-v2.txt")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}

	if renamed.ObjectKey != file.ObjectKey {
		t.Fatal("object key changed on rename")
	}

	moved, err := r.MoveFile(ctx, owner, file.ID, folder)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if moved.Path != "docs" || moved.FolderID == nil || *moved.FolderID != folder.ID {
		t.Fatalf("moved = %+v", moved)
	}

	deleted, err := r.DeleteFile(ctx, owner, file.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if deleted.ObjectKey != file.ObjectKey {
		t.Fatalf("deleted key = %q", deleted.ObjectKey)
	}

	if _, err := r.FileByID(ctx, owner, file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("file still present: %v", err)
	}
}

func TestSetFilePublicAndLookup(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := "alice@example.com"

	file := mustFile(t, r, owner, "shared.txt", nil)

	got, err := r.SetFilePublic(ctx, owner, file.ID, true)
	if err != nil || !got.IsPublic {
		t.Fatalf("set public: %+v, %v", got, err)
	}

	byLink, err := r.FileByPublicLink(ctx, file.PublicLink)
	if err != nil {
		t.Fatalf("lookup by link: %v", err)
	}

	if byLink.ID != file.ID {
		t.Fatalf("link resolved to %d, want %d", byLink.ID, file.ID)
	}

	if _, err := r.FileByPublicLink(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown link: %v", err)
	}
}
