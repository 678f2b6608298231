package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/listingvault/pkg/configs"
)

var groupcachePoolOnce sync.Once

// GroupcacheKV 本节点数据保存在 map 中，未命中时通过 groupcache 从对等节点拉取.
// groupcache 的热点缓存不支持删除，对等节点可能在短时间内读到旧值.
type GroupcacheKV struct {
	group *groupcache.Group
	mu    sync.RWMutex
	data  map[string][]byte
	peers bool
}

// NewGroupcacheKV 创建 Groupcache KV 实例；同名 group 在进程内只注册一次.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	gc := cfg.Groupcache
	g := &GroupcacheKV{data: make(map[string][]byte), peers: len(gc.Peers) > 0}

	getter := groupcache.GetterFunc(func(_ context.Context, key string, dest groupcache.Sink) error {
		v, err := g.local(key)
		if err != nil {
			return err
		}

		return dest.SetBytes(v)
	})

	if existing := groupcache.GetGroup(gc.Name); existing != nil {
		return nil, fmt.Errorf("groupcache group %q already registered", gc.Name)
	}

	g.group = groupcache.NewGroup(gc.Name, gc.CacheBytes, getter)

	if g.peers {
		groupcachePoolOnce.Do(func() {
			pool := groupcache.NewHTTPPoolOpts(gc.Self, &groupcache.HTTPPoolOptions{})
			pool.Set(gc.Peers...)
		})
	}

	return g, nil
}

// local 读取本节点数据并处理过期.
func (g *GroupcacheKV) local(key string) ([]byte, error) {
	g.mu.RLock()
	raw, ok := g.data[key]
	g.mu.RUnlock()

	if !ok {
		return nil, ErrKeyNotFound
	}

	v, expired, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		g.mu.Lock()
		delete(g.data, key)
		g.mu.Unlock()

		return nil, ErrKeyNotFound
	}

	return v, nil
}

// Get 优先读本节点，配置了对等节点时再经由 groupcache 读取.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := g.local(key)
	if err == nil || !g.peers {
		return v, err
	}

	var data []byte
	if err := g.group.Get(ctx, key, groupcache.AllocatingByteSliceSink(&data)); err != nil {
		return nil, ErrKeyNotFound
	}

	return data, nil
}

// Set 设置键的值.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	cp := make([]byte, len(encoded))
	copy(cp, encoded)

	g.mu.Lock()
	g.data[key] = cp
	g.mu.Unlock()

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.data, key)
	g.mu.Unlock()

	return nil
}

// Exists 检查键是否存在（仅本节点）.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	_, err := g.local(key)
	if err == ErrKeyNotFound {
		return false, nil
	}

	return err == nil, err
}

// Keys 返回本节点匹配模式的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	mt, err := newMatcher(pattern)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	candidates := make([]string, 0, len(g.data))

	for k := range g.data {
		if mt.Match(k) {
			candidates = append(candidates, k)
		}
	}
	g.mu.RUnlock()

	keys := candidates[:0]

	for _, k := range candidates {
		if _, err := g.local(k); err == nil {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

// Close groupcache 没有显式的关闭方法.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterFactory(configs.KVTypeGroupcache, NewGroupcacheKV)
}
