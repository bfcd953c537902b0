package s3

import (
	"errors"
	"net/http"

	minio "github.com/minio/minio-go/v7"
)

// ErrKeyOutsidePrefix 表示请求的对象键不在调用方所属的用户前缀内.
var ErrKeyOutsidePrefix = errors.New("object key outside owner prefix")

// IsNotFound 判断错误是否为对象/桶不存在.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound {
		return true
	}

	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}

	return false
}

// IsAccessDenied 判断错误是否为访问被拒绝.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}

	resp := minio.ToErrorResponse(err)

	return resp.StatusCode == http.StatusForbidden || resp.Code == "AccessDenied"
}
