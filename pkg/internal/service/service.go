// Package service 实现业务逻辑（图片上传、房源、横幅配置、联系请求），不处理 HTTP 细节.
// 依赖通过构造函数注入.
package service

import (
	"errors"

	"github.com/yeisme/listingvault/pkg/internal/model"
)

var (
	// ErrNotFound 记录不存在.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID 标识符格式错误.
	ErrInvalidID = model.ErrInvalidID
)

const (
	// DefaultImageName 上传文件缺少文件名时使用.
	DefaultImageName = "image"
	// DefaultContentType 上传文件缺少 Content-Type 时使用.
	DefaultContentType = "application/octet-stream"
)
