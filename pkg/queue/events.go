package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishObjectStored 发布 fv.object.stored 事件.
// 在字节写入对象存储且元数据入库后调用，通知下游流程（索引、审计等）.
func PublishObjectStored(pub message.Publisher, payload ObjectStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicObjectStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicObjectStored, msg)
}

// PublishObjectDeleted 发布 fv.object.deleted 事件.
func PublishObjectDeleted(pub message.Publisher, payload ObjectDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicObjectDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicObjectDeleted, msg)
}

// PublishObjectRenamed 发布 fv.object.renamed 事件.
func PublishObjectRenamed(pub message.Publisher, payload ObjectRenamedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicObjectRenamed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicObjectRenamed, msg)
}

// PublishFolderCreated 发布 fv.folder.created 事件.
func PublishFolderCreated(pub message.Publisher, payload FolderCreatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFolderCreated, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFolderCreated, msg)
}

// PublishFolderMoved 发布 fv.folder.moved 事件.
func PublishFolderMoved(pub message.Publisher, payload FolderMovedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFolderMoved, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFolderMoved, msg)
}

// PublishFolderDeleted 发布 fv.folder.deleted 事件.
func PublishFolderDeleted(pub message.Publisher, payload FolderDeletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicFolderDeleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicFolderDeleted, msg)
}

// ParseObjectStored 将 Watermill 消息解析为强类型 Envelope.
func ParseObjectStored(msg *message.Message) (Message[ObjectStoredPayload], error) {
	return ParseWatermillMessage[ObjectStoredPayload](msg)
}

// ParseFolderDeleted 将 Watermill 消息解析为强类型 Envelope.
func ParseFolderDeleted(msg *message.Message) (Message[FolderDeletedPayload], error) {
	return ParseWatermillMessage[FolderDeletedPayload](msg)
}
