package pathutil_test

import (
	"testing"

	"github.com/yeisme/filevault/pkg/pathutil"
)

// TestNormalize 测试路径规范化的各种输入形式.
func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"/", ""},
		{"a", "a"},
		{"/a/b/", "a/b"},
		{"a//b", "a/b"},
		{"a\\b\\c", "a/b/c"},
		{"a//b\\c/", "a/b/c"},
		{"  docs/photos  ", "docs/photos"},
		{"///a////b///", "a/b"},
	}

	for _, c := range cases {
		if got := pathutil.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestNormalizeIdempotent 规范化必须幂等.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "a//b\\c/", "/x/y/", "  a/b  ", "\\\\a\\b"}

	for _, in := range inputs {
		once := pathutil.Normalize(in)
		twice := pathutil.Normalize(once)

		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

// TestSplit 测试路径拆分.
func TestSplit(t *testing.T) {
	if got := pathutil.Split(""); got != nil {
		t.Errorf("Split(\"\") = %v, want nil", got)
	}

	got := pathutil.Split("/a//b/c/")
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("Split returned %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Split segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestJoin 测试路径拼接跳过空段.
func TestJoin(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"", "a", "b"}, "a/b"},
		{[]string{"a/", "/b"}, "a/b"},
		{[]string{"", ""}, ""},
		{[]string{"docs", "photos", "2024"}, "docs/photos/2024"},
	}

	for _, c := range cases {
		if got := pathutil.Join(c.parts...); got != c.want {
			t.Errorf("Join(%v) = %q, want %q", c.parts, got, c.want)
		}
	}
}

// TestDirBase 测试父目录与末段提取.
func TestDirBase(t *testing.T) {
	cases := []struct {
		in   string
		dir  string
		base string
	}{
		{"", "", ""},
		{"a", "", "a"},
		{"a/b", "a", "b"},
		{"a/b/c.txt", "a/b", "c.txt"},
		{"/a/b/", "a", "b"},
	}

	for _, c := range cases {
		if got := pathutil.Dir(c.in); got != c.dir {
			t.Errorf("Dir(%q) = %q, want %q", c.in, got, c.dir)
		}

		if got := pathutil.Base(c.in); got != c.base {
			t.Errorf("Base(%q) = %q, want %q", c.in, got, c.base)
		}
	}
}
