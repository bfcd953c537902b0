// Package types 定义对外接口的请求/响应结构.
package types

// CreateFolderRequest 创建文件夹请求.
type CreateFolderRequest struct {
	Name string `binding:"required" json:"name"` // 文件夹名称
	Path string `json:"path,omitempty"`          // 父路径（可选，空为根目录）
}

// CreateFolderResponse 创建文件夹响应.
type CreateFolderResponse struct {
	FolderID  uint   `json:"folder_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	FullPath  string `json:"full_path"`
	CreatedAt string `json:"created_at"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// RenameFolderRequest 重命名文件夹请求.
type RenameFolderRequest struct {
	NewName string `binding:"required" json:"new_name"` // 新文件夹名称
}

// RenameFolderResponse 重命名文件夹响应.
type RenameFolderResponse struct {
	FolderID uint   `json:"folder_id"`
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
	FullPath string `json:"full_path"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// MoveFolderRequest 移动文件夹请求.
type MoveFolderRequest struct {
	NewParentPath string `json:"new_parent_path"` // 目标父路径，空为根目录
}

// MoveFolderResponse 移动文件夹响应.
type MoveFolderResponse struct {
	FolderID uint   `json:"folder_id"`
	OldPath  string `json:"old_path"`
	FullPath string `json:"full_path"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// DeleteFolderResponse 删除文件夹响应，计数包含文件夹自身.
type DeleteFolderResponse struct {
	FolderID       uint   `json:"folder_id"`
	FullPath       string `json:"full_path"`
	FoldersDeleted int    `json:"folders_deleted"`
	FilesDeleted   int    `json:"files_deleted"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

// FolderInfo 列表项中的文件夹信息.
type FolderInfo struct {
	FolderID  uint   `json:"folder_id"`
	Name      string `json:"name"`
	FullPath  string `json:"full_path"`
	CreatedAt string `json:"created_at"`
}

// Breadcrumb 面包屑导航项，根为 {"Home", ""}.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
