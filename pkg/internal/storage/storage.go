// Package storage 聚合元数据库、对象存储、KV 缓存与消息队列客户端.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // 处理错误
//	}
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/filevault/pkg/configs"
	dbc "github.com/yeisme/filevault/pkg/internal/storage/db"
	kvc "github.com/yeisme/filevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/filevault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/filevault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client

	// Objects 基于 S3 客户端的按用户前缀对象仓库.
	Objects *s3c.Store
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
// MQ 仅在事件配置启用时连接.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		dbi, e := dbc.New(ctx, &cfg.DB)
		if e != nil {
			err = e
			return
		}

		m.DB = dbi

		s3i, e := s3c.New(ctx)
		if e != nil {
			err = e
			return
		}

		m.S3 = s3i
		m.Objects = s3c.NewStore(s3i)

		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = e
			return
		}

		m.KV = kvi

		if cfg.Events.Enabled {
			mqi, e := mqc.New(ctx)
			if e != nil {
				err = e
				return
			}

			m.MQ = mqi
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端，未启用事件时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetObjectStore 获取按用户前缀组织的对象仓库.
func (m *Manager) GetObjectStore() *s3c.Store {
	return m.Objects
}

// Close 依次关闭全部存储资源.
func (m *Manager) Close() error {
	var err error

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	if m.DB != nil {
		if e := m.DB.Close(); e != nil {
			err = e
		}
	}

	return err
}
