package mq

import (
	"context"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/yeisme/listingvault/pkg/configs"
)

const natsDrainTimeout = 30 * time.Second

func init() {
	RegisterFactory(configs.MQTypeNATS, natsFactory)
}

// natsOptions 构建连接选项，认证优先级 JWT > NKey > 用户名密码.
func natsOptions(cfg *configs.MQNATSConfig) []nc.Option {
	opts := []nc.Option{
		nc.Name(cfg.ClientName),
		nc.MaxReconnects(cfg.MaxReconnects),
		nc.ReconnectWait(cfg.ReconnectWait),
		nc.PingInterval(cfg.PingInterval),
		nc.DrainTimeout(natsDrainTimeout),
		nc.RetryOnFailedConnect(true),
	}

	switch {
	case cfg.JWT != "":
		opts = append(opts, nc.UserJWTAndSeed(cfg.JWT, cfg.NKey))
	case cfg.NKey != "":
		opts = append(opts, nc.Nkey(cfg.NKey, nil))
	case cfg.User != "":
		opts = append(opts, nc.UserInfo(cfg.User, cfg.Password))
	}

	return opts
}

func natsURL(cfg *configs.MQNATSConfig) string {
	if len(cfg.ClusterURLs) > 0 {
		return strings.Join(cfg.ClusterURLs, ",")
	}

	return cfg.URL
}

// natsFactory 创建 NATS Publisher & Subscriber，可选 JetStream 持久化.
func natsFactory(_ context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	n := &cfg.NATS
	opts := natsOptions(n)
	marshaler := &nats.JSONMarshaler{}

	js := nats.JetStreamConfig{
		Disabled:      !n.JetStream,
		AutoProvision: n.AutoProvision,
		TrackMsgId:    n.TrackMsgID,
		AckAsync:      n.AckAsync,
		DurablePrefix: n.DurablePrefix,
	}

	pub, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         natsURL(n),
		NatsOptions: opts,
		JetStream:   js,
		Marshaler:   marshaler,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:         natsURL(n),
		NatsOptions: opts,
		JetStream:   js,
		Unmarshaler: marshaler,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, nil, err
	}

	return pub, sub, nil
}
