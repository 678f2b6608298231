// Package signature 根据文件头部的魔数判断内容是否与声明的 MIME 一致.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/yeisme/listingvault/pkg/internal/policy"
)

const (
	// headerSize 二进制格式读取的头部长度.
	headerSize = 12
	// textHeaderSize 文本格式（SVG）读取的头部长度.
	textHeaderSize = 100
	// minTextBytes 文本格式最少需要读到的字节数.
	minTextBytes = 4
)

// Rule 描述一种图片格式的签名.
type Rule struct {
	MIME     string
	Patterns [][]byte // 任一前缀匹配即可
	Offset8  []byte   // 非空时要求偏移 8 处同时匹配
	Text     bool     // 文本格式，按关键字查找
	Keywords [][]byte
}

// need 返回判断该规则所需的最少字节数.
func (r Rule) need() int {
	if r.Text {
		return minTextBytes
	}

	n := 0
	for _, p := range r.Patterns {
		n = max(n, len(p))
	}

	if len(r.Offset8) > 0 {
		n = max(n, 8+len(r.Offset8))
	}

	return n
}

// prefixSize 返回需要读取的头部长度.
func (r Rule) prefixSize() int {
	if r.Text {
		return textHeaderSize
	}

	return headerSize
}

func (r Rule) match(head []byte) bool {
	if len(head) < r.need() {
		return false
	}

	if r.Text {
		lower := bytes.ToLower(head)
		for _, kw := range r.Keywords {
			if bytes.Contains(lower, kw) {
				return true
			}
		}

		return false
	}

	matched := false

	for _, p := range r.Patterns {
		if bytes.HasPrefix(head, p) {
			matched = true

			break
		}
	}

	if !matched {
		return false
	}

	if len(r.Offset8) > 0 {
		return bytes.Equal(head[8:8+len(r.Offset8)], r.Offset8)
	}

	return true
}

var rules = map[string]Rule{
	"image/jpeg": {
		MIME:     "image/jpeg",
		Patterns: [][]byte{{0xFF, 0xD8, 0xFF}},
	},
	"image/png": {
		MIME:     "image/png",
		Patterns: [][]byte{{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	},
	"image/gif": {
		MIME:     "image/gif",
		Patterns: [][]byte{[]byte("GIF87a"), []byte("GIF89a")},
	},
	"image/bmp": {
		MIME:     "image/bmp",
		Patterns: [][]byte{[]byte("BM")},
	},
	"image/webp": {
		MIME:     "image/webp",
		Patterns: [][]byte{[]byte("RIFF")},
		Offset8:  []byte("WEBP"),
	},
	"image/tiff": {
		MIME:     "image/tiff",
		Patterns: [][]byte{{0x49, 0x49, 0x2A, 0x00}, {0x4D, 0x4D, 0x00, 0x2A}},
	},
	"image/svg+xml": {
		MIME:     "image/svg+xml",
		Text:     true,
		Keywords: [][]byte{[]byte("<?xml"), []byte("<svg")},
	},
}

// Lookup 返回 MIME 对应的签名规则.
func Lookup(mime string) (Rule, bool) {
	r, ok := rules[policy.NormalizeMime(mime)]

	return r, ok
}

// Supported 返回内置签名支持的 MIME 列表.
func Supported() []string {
	out := make([]string, 0, len(rules))
	for k := range rules {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// Validator 签名校验器，构建后无状态，可并发使用.
type Validator struct {
	strictMime      bool
	checkMagicBytes bool
}

// New 按上传策略创建校验器.
func New(p *policy.UploadPolicy) *Validator {
	return NewWithOptions(p.StrictMime(), p.CheckMagicBytes())
}

// NewWithOptions 直接指定开关，主要供命令行与测试使用.
func NewWithOptions(strictMime, checkMagicBytes bool) *Validator {
	return &Validator{strictMime: strictMime, checkMagicBytes: checkMagicBytes}
}

// Validate 读取头部并判断内容是否与声明的 MIME 一致.
// 读到的字节不足时返回 false，只有真正的读错误才返回 error.
func (v *Validator) Validate(r io.Reader, claimedMime string) (bool, error) {
	ok, _, err := v.check(r, claimedMime)

	return ok, err
}

// Peek 与 Validate 相同，但额外返回一个从头开始的 Reader（已读头部 + 剩余内容），
// 调用方用它保存完整文件.
func (v *Validator) Peek(r io.Reader, claimedMime string) (bool, io.Reader, error) {
	ok, head, err := v.check(r, claimedMime)
	if err != nil {
		return false, nil, err
	}

	if len(head) == 0 {
		return ok, r, nil
	}

	return ok, io.MultiReader(bytes.NewReader(head), r), nil
}

// check 返回判断结果以及已消费的头部字节.
func (v *Validator) check(r io.Reader, claimedMime string) (bool, []byte, error) {
	if !v.checkMagicBytes {
		return true, nil, nil
	}

	rule, ok := Lookup(claimedMime)
	if !ok {
		return !v.strictMime, nil, nil
	}

	head, err := readPrefix(r, rule.prefixSize())
	if err != nil {
		return false, nil, err
	}

	return rule.match(head), head, nil
}

// readPrefix 尽量读满 n 字节；遇到 EOF 时返回已读部分.
func readPrefix(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)

	read, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read signature: %w", err)
	}

	return slices.Clip(buf[:read]), nil
}
