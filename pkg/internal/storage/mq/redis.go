package mq

import (
	"context"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/listingvault/pkg/configs"
)

// 消息头通过 Redis 消息体外的一层信封传递.
const redisUUIDHeader = "_uuid"

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisPublisher 基于 Redis Pub/Sub 的发布者，不保证投递.
type redisPublisher struct {
	client *redis.Client
}

// redisSubscriber 每次 Subscribe 建立一个独立的 PubSub.
type redisSubscriber struct {
	client *redis.Client
	buffer int

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
}

func redisFactory(ctx context.Context, cfg *configs.MQConfig, _ watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	buffer := cfg.Redis.BufferSize
	if buffer <= 0 {
		buffer = 100
	}

	return &redisPublisher{client: rdb}, &redisSubscriber{client: rdb, buffer: buffer}, nil
}

// Publish 实现 message.Publisher.
func (p *redisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if err := p.client.Publish(context.Background(), topic, encodeRedisMessage(msg)).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close 发布者与订阅者共用连接，由订阅者关闭.
func (p *redisPublisher) Close() error {
	return nil
}

// Subscribe 实现 message.Subscriber.
func (s *redisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("subscriber closed")
	}

	ps := s.client.Subscribe(ctx, topic)
	s.subs = append(s.subs, ps)

	out := make(chan *message.Message, s.buffer)

	go func() {
		defer close(out)

		for rm := range ps.Channel() {
			msg := decodeRedisMessage(rm.Payload)

			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}

			select {
			case <-msg.Acked():
			case <-msg.Nacked():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = ps.Close()
	}()

	return out, nil
}

// Close 关闭全部订阅与连接.
func (s *redisSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	for _, ps := range s.subs {
		_ = ps.Close()
	}

	return s.client.Close()
}

// encodeRedisMessage 格式: uuid + "\n" + payload，元数据不经过 Redis 通道.
func encodeRedisMessage(msg *message.Message) string {
	return msg.UUID + "\n" + string(msg.Payload)
}

func decodeRedisMessage(raw string) *message.Message {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			m := message.NewMessage(raw[:i], []byte(raw[i+1:]))
			m.Metadata.Set(redisUUIDHeader, raw[:i])

			return m
		}
	}

	return message.NewMessage(watermill.NewUUID(), []byte(raw))
}
