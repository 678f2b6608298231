package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/listingvault/pkg/configs"
	nlog "github.com/yeisme/listingvault/pkg/log"
)

// Producer 事件头中的生产者名.
const Producer = "listingvault"

// Publisher 发布接口，由 mq.Client 实现.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Emitter 按配置开关发布业务事件，发布失败只记日志.
// 零值或 pub 为 nil 时所有方法都是空操作.
type Emitter struct {
	pub Publisher
	cfg configs.EventsConfig
}

// NewEmitter 创建事件发布器.
func NewEmitter(pub Publisher, cfg configs.EventsConfig) *Emitter {
	return &Emitter{pub: pub, cfg: cfg}
}

// Enabled 全局开关是否打开且有可用的发布者.
func (e *Emitter) Enabled() bool {
	return e != nil && e.pub != nil && e.cfg.Enabled
}

// ImageStored 发布 lv.image.stored.
func (e *Emitter) ImageStored(ctx context.Context, p ImageStoredPayload) {
	if e.Enabled() && e.cfg.Image.Stored {
		publish(ctx, e.pub, TopicImageStored, p)
	}
}

// ImageRejected 发布 lv.image.rejected.
func (e *Emitter) ImageRejected(ctx context.Context, p ImageRejectedPayload) {
	if e.Enabled() && e.cfg.Image.Rejected {
		publish(ctx, e.pub, TopicImageRejected, p)
	}
}

// ImageDeleted 发布 lv.image.deleted.
func (e *Emitter) ImageDeleted(ctx context.Context, p ImageDeletedPayload) {
	if e.Enabled() && e.cfg.Image.Deleted {
		publish(ctx, e.pub, TopicImageDeleted, p)
	}
}

// PropertyCreated 发布 lv.property.created.
func (e *Emitter) PropertyCreated(ctx context.Context, p PropertyPayload) {
	if e.Enabled() && e.cfg.Property.Created {
		publish(ctx, e.pub, TopicPropertyCreated, p)
	}
}

// PropertyUpdated 发布 lv.property.updated.
func (e *Emitter) PropertyUpdated(ctx context.Context, p PropertyPayload) {
	if e.Enabled() && e.cfg.Property.Updated {
		publish(ctx, e.pub, TopicPropertyUpdated, p)
	}
}

// PropertyDeleted 发布 lv.property.deleted.
func (e *Emitter) PropertyDeleted(ctx context.Context, p PropertyPayload) {
	if e.Enabled() && e.cfg.Property.Deleted {
		publish(ctx, e.pub, TopicPropertyDeleted, p)
	}
}

func publish[T any](ctx context.Context, pub Publisher, topic string, payload T) {
	opts := []func(*EventHeader){WithProducer(Producer)}

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, WithTraceID(sc.TraceID().String()))
	}

	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("encode event failed")
		return
	}

	if err := pub.Publish(ctx, topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// ParseImageStored 将 Watermill 消息解析为强类型 Envelope.
func ParseImageStored(msg *message.Message) (Message[ImageStoredPayload], error) {
	return ParseWatermillMessage[ImageStoredPayload](msg)
}

// ParseProperty 解析房源事件.
func ParseProperty(msg *message.Message) (Message[PropertyPayload], error) {
	return ParseWatermillMessage[PropertyPayload](msg)
}
