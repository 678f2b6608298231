package configs

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultMaxImageSizeMB    = 25
	DefaultMaxImagesPerBatch = 100
	DefaultMaxRequestSizeMB  = 2600
	DefaultAllowedExtensions = ".jpg,.jpeg,.png,.gif,.bmp,.webp,.svg,.tiff,.tif"
	DefaultAllowedMimeTypes  = "image/jpeg,image/png,image/gif,image/bmp,image/webp,image/svg+xml,image/tiff"
	DefaultUploadConcurrency = 1

	DefaultOrphanSweepCron        = "30 3 * * *"
	DefaultOrphanSweepMinAgeHours = 72
)

// UploadConfig 图片上传策略的原始配置，运行时由 policy 包转换成不可变的策略.
type UploadConfig struct {
	MaxImageSizeMB    int64             `mapstructure:"max_image_size_mb"    rule:"min=1"`
	MaxImagesPerBatch int               `mapstructure:"max_images_per_batch" rule:"min=1"`
	MaxRequestSizeMB  int64             `mapstructure:"max_request_size_mb"  rule:"min=1"`
	AllowedExtensions string            `mapstructure:"allowed_extensions"   rule:"required"`
	AllowedMimeTypes  string            `mapstructure:"allowed_mime_types"   rule:"required"`
	StrictMime        bool              `mapstructure:"strict_mime"`
	MagicBytes        bool              `mapstructure:"magic_bytes"`
	Concurrency       int               `mapstructure:"concurrency"          rule:"min=1,max=64"`
	OrphanSweep       OrphanSweepConfig `mapstructure:"orphan_sweep"`
}

// OrphanSweepConfig 清理未被引用图片的定时任务.
type OrphanSweepConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Cron        string `mapstructure:"cron"`
	MinAgeHours int    `mapstructure:"min_age_hours" rule:"min=1"`
}

// ExtensionList 以切片形式返回允许的扩展名（已去空格并转小写）.
func (c *UploadConfig) ExtensionList() []string {
	return SplitList(c.AllowedExtensions)
}

// MimeTypeList 以切片形式返回允许的 MIME 类型.
func (c *UploadConfig) MimeTypeList() []string {
	return SplitList(c.AllowedMimeTypes)
}

// SplitList 按逗号切分，去掉空白项并统一小写.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.max_image_size_mb", DefaultMaxImageSizeMB)
	v.SetDefault("upload.max_images_per_batch", DefaultMaxImagesPerBatch)
	v.SetDefault("upload.max_request_size_mb", DefaultMaxRequestSizeMB)
	v.SetDefault("upload.allowed_extensions", DefaultAllowedExtensions)
	v.SetDefault("upload.allowed_mime_types", DefaultAllowedMimeTypes)
	v.SetDefault("upload.strict_mime", true)
	v.SetDefault("upload.magic_bytes", true)
	v.SetDefault("upload.concurrency", DefaultUploadConcurrency)

	v.SetDefault("upload.orphan_sweep.enabled", false)
	v.SetDefault("upload.orphan_sweep.cron", DefaultOrphanSweepCron)
	v.SetDefault("upload.orphan_sweep.min_age_hours", DefaultOrphanSweepMinAgeHours)
}
