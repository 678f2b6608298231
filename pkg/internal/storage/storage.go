// Package storage 聚合服务依赖的全部存储资源：数据库、图片对象存储、KV 缓存与消息队列.
//
// Example:
//
//	mgr, err := storage.Init(ctx, configs.GetConfig())
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	images := mgr.Blob
//	db := mgr.DB
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/listingvault/pkg/internal/storage/db"
	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/listingvault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/listingvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/listingvault/pkg/log"
	"github.com/yeisme/listingvault/pkg/metrics"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Blob blob.Store
	KV   kv.KVStore
	MQ   *mqc.Client // 事件关闭时为 nil
}

// Init 按配置初始化全部存储；任一必需组件失败时释放已打开的资源.
func Init(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	db, err := dbc.New(ctx, &cfg.DB, dbc.Options{
		Metrics:     cfg.Metrics.Enabled && cfg.Metrics.DBMetrics,
		MetricsSecs: cfg.Metrics.DBRefreshSecs,
		Debug:       cfg.Server.Debug,
	})
	if err != nil {
		return nil, err
	}

	m.DB = db

	switch cfg.S3.Backend {
	case configs.BlobBackendMemory:
		m.Blob = blob.NewMemory()

		nlog.Logger().Warn().Msg("image storage is in memory, uploads are lost on restart")
	default:
		s3, err := s3c.New(ctx, &cfg.S3)
		if err != nil {
			_ = m.Close()
			return nil, err
		}

		m.Blob = s3
	}

	store, err := kv.New(ctx, &cfg.KV)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	m.KV = store

	if cfg.Events.Enabled {
		var opts mqc.Options
		if cfg.Metrics.Enabled {
			opts.Registry = metrics.GetRegistry()
		}

		client, err := mqc.New(ctx, &cfg.MQ, opts)
		if err != nil {
			_ = m.Close()
			return nil, err
		}

		m.MQ = client

		nlog.Logger().Debug().Str("mq", string(client.Type())).Msg("event publisher ready")
	}

	nlog.Logger().Info().
		Str("db", cfg.DB.GetDBType()).
		Str("blob", string(cfg.S3.Backend)).
		Str("kv", string(cfg.KV.Type)).
		Bool("events", m.MQ != nil).
		Msg("storage manager initialized")

	return m, nil
}

// Components 可以单独检查的组件名.
var Components = []string{"db", "s3", "kv", "mq"}

// Check 检查单个组件，name 取值 db、s3、kv、mq.
func (m *Manager) Check(ctx context.Context, name string) error {
	switch name {
	case "db":
		if m.DB == nil {
			return errors.New("database not configured")
		}

		return m.DB.HealthCheck(ctx)
	case "s3":
		if m.Blob == nil {
			return errors.New("image storage not configured")
		}

		return m.Blob.HealthCheck(ctx)
	case "kv":
		if m.KV == nil {
			return errors.New("kv not configured")
		}

		_, err := m.KV.Exists(ctx, "health")

		return err
	case "mq":
		if m.MQ == nil {
			return errors.New("events disabled")
		}

		return nil
	default:
		return fmt.Errorf("unknown component %q", name)
	}
}

// Close 释放全部资源.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
