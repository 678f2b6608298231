// Package policy 把 upload 配置转换为不可变的上传策略快照.
// 策略在启动时构建一次并注入到签名校验器与上传编排器，运行期间只读.
package policy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/rule"
)

const bytesPerMB = 1024 * 1024

// UploadPolicy 上传策略快照，零值不可用，请使用 New 或 Default.
type UploadPolicy struct {
	maxImageBytes   int64
	maxImageMB      int64
	maxBatchCount   int
	maxRequestBytes int64
	extensions      map[string]struct{}
	mimeTypes       map[string]struct{}
	extensionList   []string // 配置顺序，去重
	mimeList        []string
	strictMime      bool
	checkMagicBytes bool
	concurrency     int
}

// New 校验配置并构建策略.
func New(cfg configs.UploadConfig) (*UploadPolicy, error) {
	if err := rule.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid upload config: %w", err)
	}

	extList := dedupe(cfg.ExtensionList())
	mimeList := dedupe(cfg.MimeTypeList())
	exts := toSet(extList)
	mimes := toSet(mimeList)

	if len(exts) == 0 {
		return nil, fmt.Errorf("invalid upload config: allowed_extensions is empty")
	}

	if len(mimes) == 0 {
		return nil, fmt.Errorf("invalid upload config: allowed_mime_types is empty")
	}

	return &UploadPolicy{
		maxImageBytes:   cfg.MaxImageSizeMB * bytesPerMB,
		maxImageMB:      cfg.MaxImageSizeMB,
		maxBatchCount:   cfg.MaxImagesPerBatch,
		maxRequestBytes: cfg.MaxRequestSizeMB * bytesPerMB,
		extensions:      exts,
		mimeTypes:       mimes,
		extensionList:   extList,
		mimeList:        mimeList,
		strictMime:      cfg.StrictMime,
		checkMagicBytes: cfg.MagicBytes,
		concurrency:     cfg.Concurrency,
	}, nil
}

// Default 返回默认配置对应的策略.
func Default() *UploadPolicy {
	p, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}

	return p
}

// DefaultConfig 返回默认的 upload 配置.
func DefaultConfig() configs.UploadConfig {
	return configs.UploadConfig{
		MaxImageSizeMB:    configs.DefaultMaxImageSizeMB,
		MaxImagesPerBatch: configs.DefaultMaxImagesPerBatch,
		MaxRequestSizeMB:  configs.DefaultMaxRequestSizeMB,
		AllowedExtensions: configs.DefaultAllowedExtensions,
		AllowedMimeTypes:  configs.DefaultAllowedMimeTypes,
		StrictMime:        true,
		MagicBytes:        true,
		Concurrency:       configs.DefaultUploadConcurrency,
		OrphanSweep: configs.OrphanSweepConfig{
			Cron:        configs.DefaultOrphanSweepCron,
			MinAgeHours: configs.DefaultOrphanSweepMinAgeHours,
		},
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}

	return set
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))

	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}

		seen[it] = struct{}{}
		out = append(out, it)
	}

	return out
}

// MaxImageBytes 单张图片的最大字节数.
func (p *UploadPolicy) MaxImageBytes() int64 { return p.maxImageBytes }

// MaxImageMB 单张图片的最大 MB 数，用于提示信息.
func (p *UploadPolicy) MaxImageMB() int64 { return p.maxImageMB }

// MaxBatchCount 每批最多文件数.
func (p *UploadPolicy) MaxBatchCount() int { return p.maxBatchCount }

// MaxRequestBytes 整个请求体上限.
func (p *UploadPolicy) MaxRequestBytes() int64 { return p.maxRequestBytes }

// StrictMime 未知 MIME 是否拒绝.
func (p *UploadPolicy) StrictMime() bool { return p.strictMime }

// CheckMagicBytes 是否检查文件签名.
func (p *UploadPolicy) CheckMagicBytes() bool { return p.checkMagicBytes }

// Concurrency 批量处理的并发度，1 表示顺序处理.
func (p *UploadPolicy) Concurrency() int { return p.concurrency }

// AllowedExtensions 按配置顺序返回扩展名副本.
func (p *UploadPolicy) AllowedExtensions() []string { return slices.Clone(p.extensionList) }

// AllowedMimeTypes 按配置顺序返回 MIME 副本.
func (p *UploadPolicy) AllowedMimeTypes() []string { return slices.Clone(p.mimeList) }

// ExtensionsLabel 用于提示信息，例如 "[.jpg, .png]".
func (p *UploadPolicy) ExtensionsLabel() string {
	return "[" + strings.Join(p.extensionList, ", ") + "]"
}

// ExtensionAllowed 判断文件名的扩展名是否允许.
func (p *UploadPolicy) ExtensionAllowed(filename string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}

	_, ok := p.extensions[ext]

	return ok
}

// MimeAllowed 判断声明的 MIME 是否允许（忽略大小写与参数）.
func (p *UploadPolicy) MimeAllowed(mime string) bool {
	_, ok := p.mimeTypes[NormalizeMime(mime)]

	return ok
}

// Extension 返回最后一个点开始的小写扩展名（含点）.
// 点在首位（隐藏文件）或末位时返回空串.
func Extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i <= 0 || i == len(filename)-1 {
		return ""
	}

	return strings.ToLower(filename[i:])
}

// NormalizeMime 小写并去掉 ";" 之后的参数.
func NormalizeMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	return strings.ToLower(strings.TrimSpace(mime))
}
