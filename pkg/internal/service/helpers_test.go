package service_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/storage/db"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
)

// newDB 为每个测试打开独立的内存 SQLite 并迁移全部模型.
func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	c, err := db.NewWithDialector(db.SQLiteDialector("file:" + name + "?mode=memory&cache=shared"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		t.Fatal(err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := c.Migrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })

	return c.DB
}

// image 构造一个内容以 header 开头的上传文件.
func image(name, contentType string, header []byte, size int) service.UploadedFile {
	data := make([]byte, size)
	copy(data, header)

	return service.UploadedFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func png(name string) service.UploadedFile {
	return image(name, "image/png", pngHeader, 256)
}
