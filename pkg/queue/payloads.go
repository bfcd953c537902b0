package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// ObjectRef 标识文件在元数据库与对象存储中的位置.
type ObjectRef struct {
	Owner     string `json:"owner"`
	FileID    uint   `json:"file_id,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	Size      int64  `json:"size,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// ObjectStoredPayload 文件字节已写入对象存储且元数据入库.
type ObjectStoredPayload struct {
	Object ObjectRef `json:"object"`
}

// ObjectDeletedPayload 文件被删除. 级联删除时逐文件发布.
type ObjectDeletedPayload struct {
	Object ObjectRef `json:"object"`
}

// ObjectRenamedPayload 文件显示名或所在目录变更，对象键不变.
type ObjectRenamedPayload struct {
	Object  ObjectRef `json:"object"`
	OldPath string    `json:"old_path"`
	OldName string    `json:"old_name"`
}

// FolderRef 标识文件夹.
type FolderRef struct {
	Owner    string `json:"owner"`
	FolderID uint   `json:"folder_id"`
	Path     string `json:"path"` // 完整逻辑路径
}

// FolderCreatedPayload 文件夹创建完成.
type FolderCreatedPayload struct {
	Folder FolderRef `json:"folder"`
}

// FolderMovedPayload 文件夹重命名或移动，子树级联更新完成.
type FolderMovedPayload struct {
	Folder  FolderRef `json:"folder"`
	OldPath string    `json:"old_path"`
}

// FolderDeletedPayload 文件夹及其子树删除完成.
type FolderDeletedPayload struct {
	Folder         FolderRef `json:"folder"`
	FoldersDeleted int       `json:"folders_deleted"`
	FilesDeleted   int       `json:"files_deleted"`
}
