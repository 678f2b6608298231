// Package mq 基于 Watermill 提供统一的发布/订阅客户端.
// 具体实现（NATS、Redis）通过 RegisterFactory 在 init 中注册.
//
// 使用示例:
//
//	client, err := mq.New(ctx, &cfg.MQ, mq.Options{})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	msg := message.NewMessage(watermill.NewUUID(), payload)
//	err = client.Publish(ctx, "lv.image.stored", msg)
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"

	watermill "github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/listingvault/pkg/configs"
	nlog "github.com/yeisme/listingvault/pkg/log"
)

// ErrNotInitialized 客户端未初始化.
var ErrNotInitialized = errors.New("mq: client not initialized")

// Factory 创建 Publisher + Subscriber.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// RegisteredTypes 返回已注册的 MQ 类型.
func RegisteredTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Options 创建客户端的附加选项.
type Options struct {
	// Registry 非空时用 watermill 的 Prometheus 装饰器统计发布/订阅.
	Registry *prometheus.Registry
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	kind       configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
}

// NewClient 用现成的 Publisher/Subscriber 构造客户端（测试使用 gochannel）.
func NewClient(kind configs.MQType, pub message.Publisher, sub message.Subscriber) *Client {
	return &Client{kind: kind, publisher: pub, subscriber: sub}
}

// New 按配置创建客户端.
func New(ctx context.Context, cfg *configs.MQConfig, opts Options) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := NewLoggerAdapter(nlog.Logger())

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	if opts.Registry != nil {
		builder := wmetrics.NewPrometheusMetricsBuilder(opts.Registry, "listingvault", "mq")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	nlog.Logger().Info().Str("type", string(cfg.Type)).Msg("mq client initialized")

	return &Client{kind: cfg.Type, publisher: pub, subscriber: sub}, nil
}

// Type 返回后端类型.
func (c *Client) Type() configs.MQType {
	return c.kind
}

// Publish 发布消息.
func (c *Client) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return ErrNotInitialized
	}

	if err := c.publisher.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

// Subscribe 订阅主题，ctx 取消后通道关闭.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, ErrNotInitialized
	}

	ch, err := c.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	return ch, nil
}

// Close 关闭发布者和订阅者.
func (c *Client) Close() error {
	var errs []error

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	if c.subscriber != nil {
		errs = append(errs, c.subscriber.Close())
	}

	return errors.Join(errs...)
}
