package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yeisme/listingvault/pkg/configs"
)

// NATSKV 基于 NATS JetStream KeyValue 的实现.
// bucket 不支持按键 TTL，过期时间写在值的包装里，读取时惰性删除.
type NATSKV struct {
	kv   nats.KeyValue
	conn *nats.Conn
}

// NewNATSKV 连接 NATS 并创建或打开 bucket.
func NewNATSKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	nc := cfg.NATS

	var opts []nats.Option
	if nc.User != "" {
		opts = append(opts, nats.UserInfo(nc.User, nc.Password))
	}

	conn, err := nats.Connect(nc.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bucket, err := js.KeyValue(nc.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		bucket, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: nc.Bucket})
	}

	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open KV bucket %s: %w", nc.Bucket, err)
	}

	return &NATSKV{kv: bucket, conn: conn}, nil
}

// Get 获取键的值.
func (n *NATSKV) Get(_ context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	val, expired, err := decodeWithTTL(entry.Value(), time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		_ = n.kv.Delete(key)
		return nil, ErrKeyNotFound
	}

	return val, nil
}

// Set 设置键的值.
func (n *NATSKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	if _, err := n.kv.Put(key, encoded); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return nil
}

// Delete 删除键.
func (n *NATSKV) Delete(_ context.Context, key string) error {
	err := n.kv.Delete(key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// Exists 检查键是否存在.
func (n *NATSKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := n.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 返回匹配模式且未过期的键.
func (n *NATSKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	mt, err := newMatcher(pattern)
	if err != nil {
		return nil, err
	}

	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	result := make([]string, 0, len(keys))

	for _, key := range keys {
		if !mt.Match(key) {
			continue
		}

		if ok, _ := n.Exists(ctx, key); ok {
			result = append(result, key)
		}
	}

	return result, nil
}

// Close 关闭 NATS 连接.
func (n *NATSKV) Close() error {
	n.conn.Close()
	return nil
}

func init() {
	RegisterFactory(configs.KVTypeNATS, NewNATSKV)
}
