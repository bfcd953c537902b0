// Package pathutil 提供逻辑路径的规范化工具.
// 所有用户可见路径统一为正斜杠分隔、无首尾分隔符的形式，空串表示根目录.
package pathutil

import "strings"

// Normalize 规范化逻辑路径：去除首尾空白、统一反斜杠为正斜杠、
// 折叠连续分隔符并去掉首尾分隔符. 幂等：Normalize(Normalize(p)) == Normalize(p).
// 空串或纯空白输入返回空串（根目录）.
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = strings.ReplaceAll(p, "\\", "/")

	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	return strings.Trim(p, "/")
}

// Split 将规范化后的路径拆分为段. 根目录返回空切片.
func Split(p string) []string {
	p = Normalize(p)
	if p == "" {
		return nil
	}

	return strings.Split(p, "/")
}

// Join 拼接路径段并规范化，跳过空段.
func Join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return Normalize(strings.Join(nonEmpty, "/"))
}

// Dir 返回路径的父目录部分，根目录下的名字返回空串.
func Dir(p string) string {
	p = Normalize(p)

	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}

	return p[:idx]
}

// Base 返回路径的最后一段，根目录返回空串.
func Base(p string) string {
	p = Normalize(p)

	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}

	return p[idx+1:]
}
