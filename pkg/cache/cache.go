// Package cache 提供基于 KV 存储的泛型缓存.
//
// 值使用 sonic 编码，键统一加命名空间前缀，GetOrSet 通过 singleflight 合并并发回源.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore, "lv")
//
//	err := cache.Set(ctx, c, "property:01J...", doc, 5*time.Minute)
//	doc, err := cache.Get[Document](ctx, c, "property:01J...")
//
//	doc, err := cache.GetOrSet(ctx, c, "property:01J...", func() (Document, error) {
//		return repo.Find(ctx, id)
//	}, 5*time.Minute)
//
// 缓存未命中返回 kv.ErrKeyNotFound；序列化错误会被包装返回.
// 缓存写入失败不会影响 GetOrSet 的返回值.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
)

// Cache 基于 KV 存储的缓存.
type Cache struct {
	kvStore kv.KVStore
	prefix  string
	group   singleflight.Group
}

// NewCache 创建缓存实例，prefix 为空时不加前缀.
func NewCache(kvStore kv.KVStore, prefix string) *Cache {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	return &Cache{kvStore: kvStore, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, c.key(key))
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, c.key(key), data, ttl)
}

// GetOrSet 命中则返回缓存值，否则调用 getter 并回填.
// 同一个 key 的并发未命中只会调用一次 getter.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := getter()
		if err != nil {
			return value, err
		}

		_ = Set(ctx, c, key, value, ttl)

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, c.key(key))
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, c.key(key))
}

// Invalidate 删除匹配 glob 模式的全部键，返回删除数量.
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int, error) {
	keys, err := c.kvStore.Keys(ctx, c.key(pattern))
	if err != nil {
		return 0, err
	}

	n := 0

	for _, k := range keys {
		if err := c.kvStore.Delete(ctx, k); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}

// Clear 清空当前前缀下的全部键.
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.Invalidate(ctx, "*")

	return err
}
