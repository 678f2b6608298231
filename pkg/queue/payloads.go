package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID，来自请求的 span.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 图片领域 --------------------------

// ImageRef 标识一张已存储的图片.
type ImageRef struct {
	ID          string `json:"id"`
	StorageKey  string `json:"storage_key"`
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
}

// ImageStoredPayload 图片已写入对象存储.
type ImageStoredPayload struct {
	Image ImageRef `json:"image"`
	// Source 触发来源：upload、hero.
	Source string `json:"source,omitempty"`
	// BatchIndex 在批次中的位置（从 1 开始），单张上传为 0.
	BatchIndex int `json:"batch_index,omitempty"`
}

// ImageRejectedPayload 图片未通过校验.
type ImageRejectedPayload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Reason      string `json:"reason"`
	Code        string `json:"code"`
}

// ImageDeletedPayload 图片被删除.
type ImageDeletedPayload struct {
	Image  ImageRef `json:"image"`
	Reason string   `json:"reason,omitempty"` // 如 orphan_sweep
}

// -------------------------- 房源领域 --------------------------

// PropertyPayload 房源创建/更新/删除事件.
type PropertyPayload struct {
	ID       string  `json:"id"`
	Type     string  `json:"type,omitempty"`
	SaleType string  `json:"sale_type,omitempty"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Geohash  string  `json:"geohash,omitempty"`
}
