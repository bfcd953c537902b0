package rule_test

import (
	"strings"
	"testing"

	"github.com/yeisme/filevault/pkg/rule"
)

// TestValidateFileNameValid 合法文件名全部通过.
func TestValidateFileNameValid(t *testing.T) {
	names := []string{
		"report.pdf",
		"photo (1).jpg",
		"数据备份.tar.gz",
		"a",
		strings.Repeat("x", 255),
		".env", // 文件名允许以点开头
	}

	for _, n := range names {
		if err := rule.ValidateFileName(n); err != nil {
			t.Errorf("ValidateFileName(%q) = %v, want nil", n, err)
		}
	}
}

// TestValidateFileNameInvalid 每条非法输入命中预期的失败原因.
func TestValidateFileNameInvalid(t *testing.T) {
	cases := []struct {
		name string
		want rule.Reason
	}{
		{"", rule.ReasonEmpty},
		{"   ", rule.ReasonEmpty},
		{"a:b.txt", rule.ReasonForbiddenChar},
		{"a*b", rule.ReasonForbiddenChar},
		{"a?b", rule.ReasonForbiddenChar},
		{`a"b`, rule.ReasonForbiddenChar},
		{"a<b>", rule.ReasonForbiddenChar},
		{"a|b", rule.ReasonForbiddenChar},
		{"a\\b", rule.ReasonForbiddenChar},
		{"a/b", rule.ReasonForbiddenChar},
		{"a\x00b", rule.ReasonForbiddenChar},
		{"CON", rule.ReasonReserved},
		{"con", rule.ReasonReserved},
		{"Com7", rule.ReasonReserved},
		{"LPT9", rule.ReasonReserved},
		{".", rule.ReasonReserved},
		{"..", rule.ReasonReserved},
		{" doc.txt", rule.ReasonWhitespace},
		{"doc.txt ", rule.ReasonWhitespace},
		{"doc.", rule.ReasonDotEdge},
		// 点结尾的检查先于长度检查
		{strings.Repeat("x", 300) + ".", rule.ReasonDotEdge},
		{strings.Repeat("x", 256), rule.ReasonTooLong},
	}

	for _, c := range cases {
		err := rule.ValidateFileName(c.name)
		if err == nil {
			t.Errorf("ValidateFileName(%q) = nil, want reason %s", c.name, c.want)
			continue
		}

		if got := rule.ReasonOf(err); got != c.want {
			t.Errorf("ValidateFileName(%q) reason = %s, want %s", c.name, got, c.want)
		}
	}
}

// TestValidateFolderName 文件夹名的点规则与文件名不同.
func TestValidateFolderName(t *testing.T) {
	valid := []string{"Documents", "my folder", "2024.archive.v2", "фото"}
	for _, n := range valid {
		if err := rule.ValidateFolderName(n); err != nil {
			t.Errorf("ValidateFolderName(%q) = %v, want nil", n, err)
		}
	}

	cases := []struct {
		name string
		want rule.Reason
	}{
		{".hidden", rule.ReasonDotEdge},
		{"trailing.", rule.ReasonDotEdge},
		{"NUL", rule.ReasonReserved},
		{"a|b", rule.ReasonForbiddenChar},
		{strings.Repeat("y", 256), rule.ReasonTooLong},
	}

	for _, c := range cases {
		err := rule.ValidateFolderName(c.name)
		if err == nil {
			t.Errorf("ValidateFolderName(%q) = nil, want reason %s", c.name, c.want)
			continue
		}

		if got := rule.ReasonOf(err); got != c.want {
			t.Errorf("ValidateFolderName(%q) reason = %s, want %s", c.name, got, c.want)
		}
	}
}

// TestValidatePath 路径校验覆盖分隔符、长度与逐段校验.
func TestValidatePath(t *testing.T) {
	if err := rule.ValidatePath("docs/photos/2024"); err != nil {
		t.Errorf("ValidatePath(valid) = %v, want nil", err)
	}

	if err := rule.ValidatePath(""); err != nil {
		t.Errorf("ValidatePath(root) = %v, want nil", err)
	}

	cases := []struct {
		path string
		want rule.Reason
	}{
		{"a//b", rule.ReasonDoubleSep},
		{strings.Repeat("a/", 600), rule.ReasonTooLong},
		{"docs/../etc", rule.ReasonReserved},
		{"docs/CON/x", rule.ReasonReserved},
		{"docs/bad|name", rule.ReasonForbiddenChar},
	}

	for _, c := range cases {
		err := rule.ValidatePath(c.path)
		if err == nil {
			t.Errorf("ValidatePath(%q) = nil, want reason %s", c.path, c.want)
			continue
		}

		if got := rule.ReasonOf(err); got != c.want {
			t.Errorf("ValidatePath(%q) reason = %s, want %s", c.path, got, c.want)
		}
	}
}

// TestStructTagRules 领域规则可通过 rule tag 在结构体上使用.
func TestStructTagRules(t *testing.T) {
	type req struct {
		Name string `rule:"required,foldername"`
		Path string `rule:"relpath"`
	}

	if err := rule.ValidateStruct(req{Name: "Documents", Path: "a/b"}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}

	if err := rule.ValidateStruct(req{Name: ".bad", Path: ""}); err == nil {
		t.Error("expected error for folder name starting with period")
	}

	if err := rule.ValidateStruct(req{Name: "ok", Path: "a//b"}); err == nil {
		t.Error("expected error for path with doubled separators")
	}
}
