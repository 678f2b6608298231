// Package blob 定义图片字节的存储接口，以及测试和单机部署使用的内存实现.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound 对象不存在.
var ErrNotFound = errors.New("blob: object not found")

// ObjectInfo 对象元信息.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store 对象存储.
type Store interface {
	// Put 写入完整的流，size 未知时传 -1.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	// Get 打开对象，调用方负责关闭.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete 删除对象，不存在时不报错.
	Delete(ctx context.Context, key string) error
	// List 列出前缀下的对象.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// HealthCheck 检查后端可用.
	HealthCheck(ctx context.Context) error
}

type memoryObject struct {
	data []byte
	info ObjectInfo
}

// Memory 进程内对象存储.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemory 创建内存对象存储.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memoryObject)}
}

// Put 读取整个流并保存.
func (m *Memory) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read object body: %w", err)
	}

	info := ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType, LastModified: time.Now()}

	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, info: info}
	m.mu.Unlock()

	return info, nil
}

// Get 返回对象内容.
func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ObjectInfo{}, ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

// Delete 删除对象.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()

	return nil
}

// List 按键排序返回前缀下的对象.
func (m *Memory) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ObjectInfo, 0)

	for k, obj := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, obj.info)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// Len 返回对象数量.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// HealthCheck 内存实现始终可用.
func (m *Memory) HealthCheck(context.Context) error {
	return nil
}
