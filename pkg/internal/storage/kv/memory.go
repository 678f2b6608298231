package kv

import (
	"context"
	"sync"
	"time"

	"github.com/yeisme/listingvault/pkg/configs"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // 零值表示不过期
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryKV 进程内 KV 实现，支持 TTL（读取时惰性淘汰）.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryEntry), now: time.Now}
}

func newMemoryKV(_ context.Context, _ *configs.KVConfig) (KVStore, error) {
	return NewMemoryKV(), nil
}

// Get 获取键的值.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrKeyNotFound
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, ok := m.data[key]; ok && cur.expired(m.now()) {
			delete(m.data, key)
		}
		m.mu.Unlock()

		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: make([]byte, len(value))}
	copy(e.value, value)

	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err == ErrKeyNotFound {
		return false, nil
	}

	return err == nil, err
}

// Keys 返回匹配模式且未过期的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	mt, err := newMatcher(pattern)
	if err != nil {
		return nil, err
	}

	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0)

	for k, e := range m.data {
		if !e.expired(now) && mt.Match(k) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

// Close 内存实现无需释放资源.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.KVTypeMemory, newMemoryKV)
}
