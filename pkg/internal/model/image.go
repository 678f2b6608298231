package model

import (
	"strconv"
	"time"
)

// 图片来源.
const (
	ImageSourceUpload = "upload"
	ImageSourceHero   = "hero"
)

// Image 已存储图片的元数据，字节本身在对象存储中.
type Image struct {
	ID          string `gorm:"primaryKey;size:26" json:"id"`
	Name        string `gorm:"size:512"           json:"name"`
	ContentType string `gorm:"size:255;index"     json:"content_type"`
	Size        int64  `json:"size"`
	// Checksum 内容的 xxhash64（十六进制），同时作为 ETag
	Checksum   string    `gorm:"size:16"       json:"checksum"`
	StorageKey string    `gorm:"size:1024"     json:"storage_key"`
	Source     string    `gorm:"size:32;index" json:"source"`
	CreatedAt  time.Time `gorm:"index"         json:"created_at"`
}

// PublicURL 返回图片的访问路径.
func (i *Image) PublicURL() string { return ImageURL(i.ID) }

// ETag 强 ETag.
func (i *Image) ETag() string { return strconv.Quote(i.Checksum) }

// ImageURL 由标识符得到访问路径.
func ImageURL(id string) string { return "/api/images/" + id }
