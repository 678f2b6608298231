package policy_test

import (
	"testing"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/policy"
)

// TestDefault 默认值与文档一致.
func TestDefault(t *testing.T) {
	p := policy.Default()

	if p.MaxImageBytes() != 25*1024*1024 {
		t.Errorf("MaxImageBytes = %d", p.MaxImageBytes())
	}

	if p.MaxBatchCount() != 100 {
		t.Errorf("MaxBatchCount = %d", p.MaxBatchCount())
	}

	if p.MaxRequestBytes() != 2600*1024*1024 {
		t.Errorf("MaxRequestBytes = %d", p.MaxRequestBytes())
	}

	if !p.StrictMime() || !p.CheckMagicBytes() {
		t.Error("strict mime and magic checks should default to true")
	}

	if p.Concurrency() != 1 {
		t.Errorf("Concurrency = %d", p.Concurrency())
	}

	if got := len(p.AllowedExtensions()); got != 9 {
		t.Errorf("expected 9 extensions, got %d", got)
	}

	if got := p.ExtensionsLabel(); got != "[.jpg, .jpeg, .png, .gif, .bmp, .webp, .svg, .tiff, .tif]" {
		t.Errorf("ExtensionsLabel = %q", got)
	}
}

// TestExtension 扩展名提取规则.
func TestExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":       ".jpg",
		"archive.tar.png": ".png",
		"noext":           "",
		".hidden":         "",
		"trailing.":       "",
		"":                "",
		"a.b":             ".b",
	}

	for in, want := range cases {
		if got := policy.Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestAllowed 扩展名与 MIME 判断忽略大小写.
func TestAllowed(t *testing.T) {
	p := policy.Default()

	for _, name := range []string{"image.jpg", "IMAGE.JPG", "image.PnG", "x.tif", "x.svg"} {
		if !p.ExtensionAllowed(name) {
			t.Errorf("%s should be allowed", name)
		}
	}

	for _, name := range []string{"file.exe", "file.txt", "file", ".png"} {
		if p.ExtensionAllowed(name) {
			t.Errorf("%s should not be allowed", name)
		}
	}

	if !p.MimeAllowed("IMAGE/JPEG") || !p.MimeAllowed("image/svg+xml; charset=utf-8") {
		t.Error("mime check should ignore case and parameters")
	}

	if p.MimeAllowed("application/pdf") || p.MimeAllowed("") {
		t.Error("non-image mime should be rejected")
	}
}

// TestNew_Custom 解析自定义列表并拒绝非法配置.
func TestNew_Custom(t *testing.T) {
	cfg := policy.DefaultConfig()
	cfg.AllowedExtensions = " .PNG , ,.png,.webp "
	cfg.AllowedMimeTypes = "image/png"
	cfg.MaxImageSizeMB = 2
	cfg.Concurrency = 4

	p, err := policy.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := p.AllowedExtensions(); len(got) != 2 || got[0] != ".png" || got[1] != ".webp" {
		t.Errorf("AllowedExtensions = %v", got)
	}

	if p.MaxImageBytes() != 2*1024*1024 || p.MaxImageMB() != 2 {
		t.Errorf("size limits not converted: %d", p.MaxImageBytes())
	}

	bad := []func(*configs.UploadConfig){
		func(c *configs.UploadConfig) { c.MaxImageSizeMB = 0 },
		func(c *configs.UploadConfig) { c.MaxImagesPerBatch = 0 },
		func(c *configs.UploadConfig) { c.Concurrency = 0 },
		func(c *configs.UploadConfig) { c.AllowedExtensions = " , " },
	}

	for i, mutate := range bad {
		c := policy.DefaultConfig()
		mutate(&c)

		if _, err := policy.New(c); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

// TestAccessorsReturnCopies 修改返回的切片不影响策略.
func TestAccessorsReturnCopies(t *testing.T) {
	p := policy.Default()

	exts := p.AllowedExtensions()
	exts[0] = ".exe"

	if p.ExtensionAllowed("virus.exe") {
		t.Error("policy mutated through accessor")
	}
}
