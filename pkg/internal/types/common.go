// Package types 定义 HTTP 接口的请求与响应结构，供处理器与 swagger 文档共用.
package types

// MessageResponse 只有提示信息的响应.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse 处理器内部错误.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorsResponse 校验失败，列出全部错误.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// HealthResponse 健康检查结果.
type HealthResponse struct {
	Component string `json:"component,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}
