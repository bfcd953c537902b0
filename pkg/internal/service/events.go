package service

import (
	"github.com/yeisme/filevault/pkg/internal/model"
	nlog "github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/queue"
)

const eventProducer = "filevault"

// eventsOn 事件发布总开关：配置启用且 MQ 已连接.
func (s *VaultService) eventsOn() bool {
	return s.cfg != nil && s.cfg.Events.Enabled && s.mq != nil && s.mq.Publisher() != nil
}

// 事件发布失败不影响主操作，只记日志.

func (s *VaultService) emitObjectStored(f *model.StoredFile) {
	if !s.eventsOn() || !s.cfg.Events.Object.Stored {
		return
	}

	err := queue.PublishObjectStored(s.mq.Publisher(), queue.ObjectStoredPayload{
		Object: objectRef(f),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("file_id", f.ID).Msg("publish object stored failed")
	}
}

func (s *VaultService) emitObjectDeleted(f *model.StoredFile) {
	if !s.eventsOn() || !s.cfg.Events.Object.Deleted {
		return
	}

	err := queue.PublishObjectDeleted(s.mq.Publisher(), queue.ObjectDeletedPayload{
		Object: objectRef(f),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("file_id", f.ID).Msg("publish object deleted failed")
	}
}

func (s *VaultService) emitObjectRenamed(f *model.StoredFile, oldPath, oldName string) {
	if !s.eventsOn() || !s.cfg.Events.Object.Renamed {
		return
	}

	err := queue.PublishObjectRenamed(s.mq.Publisher(), queue.ObjectRenamedPayload{
		Object:  objectRef(f),
		OldPath: oldPath,
		OldName: oldName,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("file_id", f.ID).Msg("publish object renamed failed")
	}
}

func (s *VaultService) emitFolderCreated(f *model.Folder) {
	if !s.eventsOn() || !s.cfg.Events.Folder.Created {
		return
	}

	err := queue.PublishFolderCreated(s.mq.Publisher(), queue.FolderCreatedPayload{
		Folder: folderRef(f),
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("folder_id", f.ID).Msg("publish folder created failed")
	}
}

func (s *VaultService) emitFolderMoved(f *model.Folder, oldPath string) {
	if !s.eventsOn() || !s.cfg.Events.Folder.Moved {
		return
	}

	err := queue.PublishFolderMoved(s.mq.Publisher(), queue.FolderMovedPayload{
		Folder:  folderRef(f),
		OldPath: oldPath,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("folder_id", f.ID).Msg("publish folder moved failed")
	}
}

func (s *VaultService) emitFolderDeleted(f *model.Folder, foldersDeleted, filesDeleted int) {
	if !s.eventsOn() || !s.cfg.Events.Folder.Deleted {
		return
	}

	err := queue.PublishFolderDeleted(s.mq.Publisher(), queue.FolderDeletedPayload{
		Folder:         folderRef(f),
		FoldersDeleted: foldersDeleted,
		FilesDeleted:   filesDeleted,
	}, queue.WithProducer(eventProducer))
	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("folder_id", f.ID).Msg("publish folder deleted failed")
	}
}

func objectRef(f *model.StoredFile) queue.ObjectRef {
	return queue.ObjectRef{
		Owner:     f.Owner,
		FileID:    f.ID,
		ObjectKey: f.ObjectKey,
		Path:      f.Path,
		Name:      f.OriginalName,
		Size:      f.Size,
		MimeType:  f.MimeType,
	}
}

func folderRef(f *model.Folder) queue.FolderRef {
	return queue.FolderRef{
		Owner:    f.Owner,
		FolderID: f.ID,
		Path:     f.FullPath(),
	}
}
