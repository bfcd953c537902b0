// Package queue 定义消息主题常量与事件封装，供发布/订阅使用.
package queue

// 主题命名规范：fv.<域>.<动作>，尽量稳定且向后兼容.
// 域：object(文件对象)、folder(文件夹树)
// 动作：stored/deleted/renamed/created/moved

const (
	// 文件对象领域.
	TopicObjectStored  = "fv.object.stored"  // 字节已写入对象存储且元数据入库
	TopicObjectDeleted = "fv.object.deleted" // 文件被删除（含批量级联删除）
	TopicObjectRenamed = "fv.object.renamed" // 文件显示名或所在目录变更（对象键不变）

	// 文件夹树领域.
	TopicFolderCreated = "fv.folder.created" // 文件夹创建完成（标记对象已写入）
	TopicFolderMoved   = "fv.folder.moved"   // 文件夹重命名或移动（子树路径级联更新完成）
	TopicFolderDeleted = "fv.folder.deleted" // 文件夹及其子树删除完成
)

// 主题分组，用于批量订阅.
var (
	// 文件对象相关主题集合.
	ObjectTopics = []string{
		TopicObjectStored, TopicObjectDeleted, TopicObjectRenamed,
	}

	// 文件夹相关主题集合.
	FolderTopics = []string{
		TopicFolderCreated, TopicFolderMoved, TopicFolderDeleted,
	}
)
