package types

// UploadResponse 批量上传成功或部分成功.
type UploadResponse struct {
	URLs     []string `json:"urls"`
	Warnings []string `json:"warnings,omitempty"`
}

// UploadFailedResponse 整批文件都被拒绝.
type UploadFailedResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// HeroImageResponse 横幅图片上传结果.
type HeroImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Message  string `json:"message"`
}
