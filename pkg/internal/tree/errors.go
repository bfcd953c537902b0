package tree

import "errors"

var (
	// ErrNotFound 目标文件夹或文件不存在（或不属于该用户）.
	ErrNotFound = errors.New("not found")
	// ErrConflict 同级下已存在同名条目.
	ErrConflict = errors.New("name already exists")
	// ErrCycle 移动会使文件夹成为自身的后代.
	ErrCycle = errors.New("cannot move a folder into its own subtree")
)
