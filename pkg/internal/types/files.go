package types

// FileInfo 列表项中的文件信息.
type FileInfo struct {
	FileID     uint   `json:"file_id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	HumanSize  string `json:"human_size"`
	MimeType   string `json:"mime_type"`
	IsPublic   bool   `json:"is_public"`
	PublicLink string `json:"public_link,omitempty"` // 仅 is_public 时返回
	UploadedAt string `json:"uploaded_at"`
}

// RenameFileRequest 重命名文件请求.
type RenameFileRequest struct {
	NewName string `binding:"required" json:"new_name"`
}

// RenameFileResponse 重命名文件响应.
type RenameFileResponse struct {
	FileID  uint   `json:"file_id"`
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MoveFileRequest 移动文件请求.
type MoveFileRequest struct {
	NewFolderPath string `json:"new_folder_path"` // 目标文件夹路径，空为根目录
}

// MoveFileResponse 移动文件响应.
type MoveFileResponse struct {
	FileID  uint   `json:"file_id"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DeleteFileResponse 删除文件响应.
type DeleteFileResponse struct {
	FileID  uint   `json:"file_id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SetFilePublicRequest 切换文件公开状态请求.
type SetFilePublicRequest struct {
	Public bool `json:"public"`
}

// SetFilePublicResponse 切换文件公开状态响应.
type SetFilePublicResponse struct {
	FileID     uint   `json:"file_id"`
	IsPublic   bool   `json:"is_public"`
	PublicLink string `json:"public_link,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}
