package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yeisme/listingvault/pkg/cache"
	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
)

// testDoc 测试用的文档结构.
type testDoc struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

// TestCache_SetGet 读写并校验前缀.
func TestCache_SetGet(t *testing.T) {
	store := kv.NewMemoryKV()
	c := cache.NewCache(store, "lv")
	ctx := context.Background()

	if _, err := cache.Get[testDoc](ctx, c, "property:1"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected miss, got %v", err)
	}

	doc := testDoc{ID: "1", Title: "Casa en Punta Cana", Price: 250000, Tags: []string{"playa"}}
	if err := cache.Set(ctx, c, "property:1", doc, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if ok, _ := store.Exists(ctx, "lv:property:1"); !ok {
		t.Fatal("expected prefixed key in underlying store")
	}

	got, err := cache.Get[testDoc](ctx, c, "property:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Title != doc.Title || got.Price != doc.Price || len(got.Tags) != 1 {
		t.Errorf("got %+v, want %+v", got, doc)
	}
}

// TestCache_Delete 删除后不存在.
func TestCache_Delete(t *testing.T) {
	c := cache.NewCache(kv.NewMemoryKV(), "")
	ctx := context.Background()

	_ = cache.Set(ctx, c, "k", 1, 0)

	if ok, _ := c.Exists(ctx, "k"); !ok {
		t.Fatal("key should exist before deletion")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Error("key should not exist after deletion")
	}
}

// TestGetOrSet 第二次命中缓存.
func TestGetOrSet(t *testing.T) {
	c := cache.NewCache(kv.NewMemoryKV(), "lv")
	ctx := context.Background()

	calls := 0
	getter := func() (testDoc, error) {
		calls++
		return testDoc{ID: "5", Title: "Solar"}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "property:5", getter, time.Minute)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}

	second, err := cache.GetOrSet(ctx, c, "property:5", getter, time.Minute)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}

	if calls != 1 {
		t.Errorf("getter called %d times, want 1", calls)
	}

	if first.Title != second.Title {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

// TestGetOrSet_GetterError 回源错误原样返回且不写缓存.
func TestGetOrSet_GetterError(t *testing.T) {
	store := kv.NewMemoryKV()
	c := cache.NewCache(store, "")
	ctx := context.Background()

	wantErr := errors.New("db down")

	_, err := cache.GetOrSet(ctx, c, "k", func() (testDoc, error) { return testDoc{}, wantErr }, 0)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected getter error, got %v", err)
	}

	if ok, _ := store.Exists(ctx, "k"); ok {
		t.Error("failed getter must not populate cache")
	}
}

// TestGetOrSet_Concurrent 并发未命中只回源一次.
func TestGetOrSet_Concurrent(t *testing.T) {
	c := cache.NewCache(kv.NewMemoryKV(), "lv")
	ctx := context.Background()

	var calls int32

	release := make(chan struct{})
	getter := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release

		return 42, nil
	}

	const n = 8

	var wg sync.WaitGroup

	results := make([]int, n)

	for i := range n {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i], _ = cache.GetOrSet(ctx, c, "hot", getter, time.Minute)
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("getter called %d times, want 1", got)
	}

	for i, r := range results {
		if r != 42 {
			t.Errorf("result[%d] = %d", i, r)
		}
	}
}

// TestCache_Invalidate 只删除匹配的键，且不越过前缀.
func TestCache_Invalidate(t *testing.T) {
	store := kv.NewMemoryKV()
	c := cache.NewCache(store, "lv")
	ctx := context.Background()

	for i := range 3 {
		_ = cache.Set(ctx, c, fmt.Sprintf("property:%d", i), i, 0)
	}

	_ = cache.Set(ctx, c, "hero:propiedades", "x", 0)
	_ = store.Set(ctx, "foreign:key", []byte("1"), 0)

	n, err := c.Invalidate(ctx, "property:*")
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if n != 3 {
		t.Errorf("invalidated %d keys, want 3", n)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if ok, _ := store.Exists(ctx, "lv:hero:propiedades"); ok {
		t.Error("Clear should remove prefixed keys")
	}

	if ok, _ := store.Exists(ctx, "foreign:key"); !ok {
		t.Error("Clear must not touch keys outside the prefix")
	}
}
