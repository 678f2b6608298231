// Package kv 提供键值存储接口以及 memory、redis、nats、groupcache 四种实现.
// 实现通过 init 注册到工厂表，按 configs.KVConfig.Type 选择.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yeisme/listingvault/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("kv: key not found")

// KVStore 定义键值存储接口.
type KVStore interface {
	// Get 获取键的值，不存在时返回 ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 设置键的值，ttl <= 0 表示不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete 删除键，不存在时不报错.
	Delete(ctx context.Context, key string) error
	// Exists 检查键是否存在.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 返回匹配 glob 模式的键，空模式等价于 "*".
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close 关闭存储连接.
	Close() error
}

// Factory 创建 KVStore 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.KVConfig) (KVStore, error)

var factories = make(map[configs.KVType]Factory)

// RegisterFactory 注册 KV 工厂函数.
func RegisterFactory(t configs.KVType, f Factory) {
	factories[t] = f
}

// RegisteredTypes 返回已注册的 KV 类型（已排序）.
func RegisteredTypes() []configs.KVType {
	types := make([]configs.KVType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// New 根据配置创建 KVStore.
func New(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	t := cfg.Type
	if t == "" {
		t = configs.KVTypeMemory
	}

	factory, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("unsupported KV type: %s", t)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init kv (%s): %w", t, err)
	}

	return store, nil
}
