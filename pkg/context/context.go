// Package context 把存储管理器、调度器与带追踪信息的 logger 放进 context，在中间件与处理器之间传递.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/listingvault/pkg/internal/storage"
	nlog "github.com/yeisme/listingvault/pkg/log"
	"github.com/yeisme/listingvault/pkg/scheduler"
)

type contextKey string

const (
	storageManagerKey contextKey = "storageManager"
	schedulerKey      contextKey = "scheduler"
)

// WithScheduler 将调度器存储到 context 中.
func WithScheduler(ctx context.Context, sched *scheduler.Scheduler) context.Context {
	return context.WithValue(ctx, schedulerKey, sched)
}

// GetScheduler 从 context 中获取调度器，未注入时返回 nil.
func GetScheduler(ctx context.Context) *scheduler.Scheduler {
	sched, _ := ctx.Value(schedulerKey).(*scheduler.Scheduler)

	return sched
}

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, storageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(storageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// Logger 返回全局 logger，span 正在记录时附加 trace_id 与 span_id.
func Logger(ctx context.Context) *zerolog.Logger {
	l := WithTraceContext(ctx, *nlog.Logger())

	return &l
}

// WithTraceContext 创建带有追踪上下文的 logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
