package types

// ListContentsResponse 目录列表响应.
type ListContentsResponse struct {
	Path        string       `json:"path"` // 规范化后的当前路径，空为根目录
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Folders     []FolderInfo `json:"folders"`
	Files       []FileInfo   `json:"files"`
	Success     bool         `json:"success"`
	Error       string       `json:"error,omitempty"`
}

// SearchResponse 文件搜索响应.
type SearchResponse struct {
	Query   string     `json:"query"`
	Files   []FileInfo `json:"files"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}
