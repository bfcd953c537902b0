package service

import (
	"errors"
	"fmt"
)

// PartialFailureError 表示双存储操作只完成了一半：对象存储侧已
// 变更，但元数据侧失败（或反之）. 携带已完成的一半，供对账或
// 人工修复定位.
type PartialFailureError struct {
	Op        string // 操作名，如 rename-folder
	Completed string // 已完成的一半的描述
	Err       error  // 失败的一半
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially failed (%s done): %v", e.Op, e.Completed, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// IsPartialFailure 判断错误是否为部分失败.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
