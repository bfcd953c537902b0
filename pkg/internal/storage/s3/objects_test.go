package s3

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	minio "github.com/minio/minio-go/v7"
)

func TestMarkerKey(t *testing.T) {
	const owner = "alice@example.com"

	tests := []struct {
		name       string
		folderPath string
		want       string
	}{
		{"root", "", "user-alice@example.com-files/tree/"},
		{"top level", "docs", "user-alice@example.com-files/tree/docs/"},
		{"nested", "docs/2024/q3", "user-alice@example.com-files/tree/docs/2024/q3/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkerKey(owner, tt.folderPath); got != tt.want {
				t.Errorf("MarkerKey(%q) = %q, want %q", tt.folderPath, got, tt.want)
			}
		})
	}
}

func TestMarkerKeysDisjointFromObjectKeys(t *testing.T) {
	const owner = "alice@example.com"

	// 文件夹名与对象键段重名也不得落入字节键前缀
	for _, folderPath := range []string{"objects", "objects/sub", "tree"} {
		marker := MarkerKey(owner, folderPath)
		if strings.HasPrefix(marker, ObjectsPrefix(owner)) {
			t.Errorf("marker %q overlaps objects prefix %q", marker, ObjectsPrefix(owner))
		}

		if strings.HasPrefix(ObjectsPrefix(owner), marker) {
			t.Errorf("objects prefix %q falls under marker %q", ObjectsPrefix(owner), marker)
		}
	}

	if !strings.HasPrefix(NewObjectKey(owner), ObjectsPrefix(owner)) {
		t.Error("object key not under objects prefix")
	}
}

func TestNewObjectKey(t *testing.T) {
	const owner = "alice@example.com"

	k1 := NewObjectKey(owner)
	k2 := NewObjectKey(owner)

	if !strings.HasPrefix(k1, ObjectsPrefix(owner)) {
		t.Errorf("key %q not under objects prefix %q", k1, ObjectsPrefix(owner))
	}

	if suffix := strings.TrimPrefix(k1, ObjectsPrefix(owner)); len(suffix) != 26 {
		t.Errorf("ulid suffix length = %d, want 26", len(suffix))
	}

	if k1 == k2 {
		t.Error("consecutive object keys must differ")
	}
}

func TestForwardListingStopsOnError(t *testing.T) {
	listErr := errors.New("listing interrupted")

	src := make(chan minio.ObjectInfo, 3)
	src <- minio.ObjectInfo{Key: "a"}
	src <- minio.ObjectInfo{Err: listErr}
	src <- minio.ObjectInfo{Key: "b"}
	close(src)

	dst := make(chan minio.ObjectInfo, 3)

	var listed atomic.Int64

	if err := forwardListing(src, dst, &listed); !errors.Is(err, listErr) {
		t.Fatalf("err = %v, want %v", err, listErr)
	}

	if listed.Load() != 1 {
		t.Errorf("listed = %d, want 1", listed.Load())
	}

	close(dst)

	var forwarded int
	for range dst {
		forwarded++
	}

	if forwarded != 1 {
		t.Errorf("forwarded = %d, want 1", forwarded)
	}
}

func TestForwardListingCleanStream(t *testing.T) {
	src := make(chan minio.ObjectInfo, 2)
	src <- minio.ObjectInfo{Key: "a"}
	src <- minio.ObjectInfo{Key: "b"}
	close(src)

	dst := make(chan minio.ObjectInfo, 2)

	var listed atomic.Int64

	if err := forwardListing(src, dst, &listed); err != nil {
		t.Fatalf("forwardListing: %v", err)
	}

	if listed.Load() != 2 {
		t.Errorf("listed = %d, want 2", listed.Load())
	}
}
