// Package model 定义持久化到关系数据库的模型.
package model

import (
	crand "crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// ErrInvalidID 标识符不是合法的 ULID.
var ErrInvalidID = errors.New("invalid id")

var (
	// 单调熵源保证同一毫秒内生成的 ID 依旧有序，本身不是并发安全的.
	entropy   = ulid.Monotonic(crand.Reader, 0)
	entropyMu sync.Mutex
)

// NewID 生成一个新的 ULID 字符串.
func NewID() string {
	return NewIDAt(time.Now().UTC())
}

// NewIDAt 以指定时间生成 ULID.
func NewIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ParseID 校验并规范化（大写）ULID.
func ParseID(s string) (string, error) {
	s = strings.TrimSpace(s)

	id, err := ulid.Parse(s)
	if err != nil {
		return "", ErrInvalidID
	}

	// Parse 不检查字符集，非法字符解码后再编码会不一致
	out := id.String()
	if !strings.EqualFold(out, s) {
		return "", ErrInvalidID
	}

	return out, nil
}

// All 返回需要自动迁移的模型.
func All() []any {
	return []any{&Image{}, &Property{}, &HeroConfig{}, &Contact{}}
}
