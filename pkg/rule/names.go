package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeisme/filevault/pkg/pathutil"
)

// Reason 标识名称/路径校验失败的具体原因.
type Reason string

const (
	ReasonEmpty         Reason = "empty"          // 空或纯空白
	ReasonForbiddenChar Reason = "forbidden_char" // 含有非法字符
	ReasonReserved      Reason = "reserved"       // 保留设备名或 "." ".."
	ReasonWhitespace    Reason = "whitespace"     // 首尾空白
	ReasonDotEdge       Reason = "dot_edge"       // 点/空格开头或结尾
	ReasonTooLong       Reason = "too_long"       // 超过长度限制
	ReasonDoubleSep     Reason = "double_sep"     // 路径含连续分隔符
)

const (
	// MaxNameLength 单段名称的最大长度.
	MaxNameLength = 255
	// MaxPathLength 完整逻辑路径的最大长度.
	MaxPathLength = 1000
)

// forbiddenChars 名称中禁止出现的字符集合（含路径分隔符与 NUL）.
const forbiddenChars = "\\/:*?\"<>|\x00"

// reservedNames Windows 风格保留设备名（大写形式）与目录自引用.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
	".": {}, "..": {},
}

// ValidationError 携带失败原因与违规值，满足 error 接口.
type ValidationError struct {
	Value  string
	Why    Reason
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Value, e.Detail)
}

// ReasonOf 提取校验错误的原因；非 ValidationError 返回空串.
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Why
	}

	return ""
}

func fail(value string, why Reason, detail string) error {
	return &ValidationError{Value: value, Why: why, Detail: detail}
}

// validateNameCommon 文件名与文件夹名共享的规则.
// 检查顺序固定：空 -> 非法字符 -> 保留名 -> 首尾空白，保证同一输入总是
// 命中确定的一条规则.
func validateNameCommon(name string) error {
	if strings.TrimSpace(name) == "" {
		return fail(name, ReasonEmpty, "name is empty")
	}

	if i := strings.IndexAny(name, forbiddenChars); i >= 0 {
		return fail(name, ReasonForbiddenChar, fmt.Sprintf("character %q is not allowed", name[i]))
	}

	if _, ok := reservedNames[strings.ToUpper(name)]; ok {
		return fail(name, ReasonReserved, "reserved name")
	}

	if name != strings.TrimSpace(name) {
		return fail(name, ReasonWhitespace, "leading or trailing whitespace")
	}

	return nil
}

// ValidateFileName 校验文件显示名. 除通用规则外，文件名不得以点或空格结尾，
// 且长度不超过 MaxNameLength. 点/空格检查先于长度检查.
func ValidateFileName(name string) error {
	if err := validateNameCommon(name); err != nil {
		return err
	}

	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return fail(name, ReasonDotEdge, "file name must not end with a period or space")
	}

	if len(name) > MaxNameLength {
		return fail(name, ReasonTooLong, fmt.Sprintf("name exceeds %d characters", MaxNameLength))
	}

	return nil
}

// ValidateFolderName 校验文件夹名. 文件夹名不得以点开头或结尾.
func ValidateFolderName(name string) error {
	if err := validateNameCommon(name); err != nil {
		return err
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fail(name, ReasonDotEdge, "folder name must not start or end with a period")
	}

	if len(name) > MaxNameLength {
		return fail(name, ReasonTooLong, fmt.Sprintf("name exceeds %d characters", MaxNameLength))
	}

	return nil
}

// ValidatePath 校验逻辑文件夹路径：拒绝连续分隔符与超长路径，
// 并对每个路径段执行文件夹名校验. 校验在任何写操作之前执行，
// 非法输入不允许到达树模型或对象存储适配层.
func ValidatePath(p string) error {
	trimmed := strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if strings.Contains(strings.Trim(trimmed, "/"), "//") {
		return fail(p, ReasonDoubleSep, "path must not contain doubled separators")
	}

	if len(p) > MaxPathLength {
		return fail(p, ReasonTooLong, fmt.Sprintf("path exceeds %d characters", MaxPathLength))
	}

	for _, segment := range pathutil.Split(p) {
		if err := ValidateFolderName(segment); err != nil {
			return err
		}
	}

	return nil
}
