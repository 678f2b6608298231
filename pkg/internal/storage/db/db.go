// Package db 打开 gorm 连接，驱动通过构建标签按需编译并在 init 中注册.
package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/yeisme/listingvault/pkg/configs"
	nlog "github.com/yeisme/listingvault/pkg/log"
)

// DialectorFactory 根据 DSN 创建 dialector.
type DialectorFactory func(dsn string) gorm.Dialector

var dialectorFactories = map[configs.DBType]DialectorFactory{}

// RegisterDialectorFactory 注册数据库 dialector 工厂函数.
func RegisterDialectorFactory(dbType configs.DBType, factory DialectorFactory) {
	dialectorFactories[dbType] = factory
}

// GetRegisteredDBTypes 返回已注册的数据库类型（已排序）.
func GetRegisteredDBTypes() []configs.DBType {
	types := make([]configs.DBType, 0, len(dialectorFactories))
	for t := range dialectorFactories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Client 包装 GORM DB 客户端.
type Client struct {
	*gorm.DB
}

// Options 打开连接时的附加选项.
type Options struct {
	Metrics     bool   // 注册 gorm prometheus 插件
	MetricsSecs uint32 // 插件刷新间隔
	Debug       bool   // 打印全部 SQL
}

// New 打开数据库连接并配置连接池.
func New(ctx context.Context, cfg *configs.DBConfig, opts Options) (*Client, error) {
	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("failed to generate DSN for database type: %s", cfg.Type)
	}

	factory, exists := dialectorFactories[cfg.Type]
	if !exists {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	gormLogger := logger.New(nlog.Logger(), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(factory(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &Client{DB: db}

	if opts.Metrics {
		if err := client.registerMetrics(cfg.Database, opts.MetricsSecs); err != nil {
			return nil, err
		}
	}

	nlog.Logger().Info().
		Str("type", cfg.GetDBType()).
		Str("database", cfg.Database).
		Msg("database connected")

	return client, nil
}

// NewWithDialector 使用给定 dialector 打开连接，测试中用于内存 SQLite.
func NewWithDialector(d gorm.Dialector) (*Client, error) {
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Client{DB: db}, nil
}

// Migrate 自动迁移传入的模型.
func (c *Client) Migrate(models ...any) error {
	if err := c.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}

// HealthCheck ping 数据库.
func (c *Client) HealthCheck(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close 关闭底层连接.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (c *Client) registerMetrics(dbName string, refresh uint32) error {
	if refresh == 0 {
		refresh = 15
	}

	plugin := gormPrometheus.New(gormPrometheus.Config{
		DBName:          dbName,
		RefreshInterval: refresh,
		StartServer:     false,
	})

	if err := c.Use(plugin); err != nil {
		return fmt.Errorf("failed to register GORM prometheus plugin: %w", err)
	}

	return nil
}
