package types

// UploadFileError 单个文件的上传失败信息.
type UploadFileError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// UploadedFileInfo 单个文件的上传结果.
type UploadedFileInfo struct {
	FileID uint   `json:"file_id"`
	Name   string `json:"name"` // 实际入库的显示名（可能带去重后缀）
	Path   string `json:"path"`
	Size   int64  `json:"size"`
}

// UploadFilesResponse 批量上传响应. 部分失败时 Success 仍为 true，
// 逐文件错误见 Errors.
type UploadFilesResponse struct {
	UploadedCount int                `json:"uploaded_count"`
	Uploaded      []UploadedFileInfo `json:"uploaded,omitempty"`
	Errors        []UploadFileError  `json:"errors,omitempty"`
	Success       bool               `json:"success"`
	Error         string             `json:"error,omitempty"`
}
