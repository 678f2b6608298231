// Package app 提供应用程序的初始化和配置功能.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/listingvault/pkg/api"
	"github.com/yeisme/listingvault/pkg/cache"
	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/handle"
	"github.com/yeisme/listingvault/pkg/internal/jobs"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/router"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/storage"
	"github.com/yeisme/listingvault/pkg/log"
	"github.com/yeisme/listingvault/pkg/metrics"
	"github.com/yeisme/listingvault/pkg/middleware"
	"github.com/yeisme/listingvault/pkg/queue"
	"github.com/yeisme/listingvault/pkg/rule"
	"github.com/yeisme/listingvault/pkg/scheduler"
	"github.com/yeisme/listingvault/pkg/tracing"
)

// shutdownTimeout 优雅退出的等待时间.
const shutdownTimeout = 15 * time.Second

// App 持有 HTTP 引擎与全部运行时资源.
type App struct {
	Engine *gin.Engine

	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

// NewApp 加载配置，初始化存储、服务与路由.
func NewApp(configPath string) (*App, error) {
	ctx := context.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	config := configs.GetConfig()
	for _, section := range []any{&config.Server, &config.Log, &config.Upload, &config.RateLimit, &config.CircuitBreaker} {
		if err := rule.ValidateStruct(section); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	log.Setup(config.Log, config.Server.Debug)
	l := log.Logger()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	up, err := policy.New(config.Upload)
	if err != nil {
		return nil, fmt.Errorf("build upload policy: %w", err)
	}

	manager, err := storage.Init(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	if err := manager.DB.Migrate(model.All()...); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var appCache *cache.Cache
	if config.Cache.Enabled {
		appCache = cache.NewCache(manager.KV, config.Cache.Prefix)
	}

	var pub queue.Publisher
	if manager.MQ != nil {
		pub = manager.MQ
	}

	events := queue.NewEmitter(pub, config.Events)

	uploads := service.NewUploadService(up, manager.Blob, manager.DB.DB, events)
	images := service.NewImageService(manager.Blob, manager.DB.DB, appCache, config.Cache.ImageTTL, events)
	h := handle.New(
		uploads,
		images,
		service.NewPropertyService(manager.DB.DB, appCache, config.Cache.PropertyTTL, events),
		service.NewHeroService(manager.DB.DB, uploads),
		service.NewContactService(manager.DB.DB),
	)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if _, err := jobs.RegisterCronJobs(sched, images, config.Upload.OrphanSweep); err != nil {
		_ = sched.Stop()
		_ = manager.Close()

		return nil, fmt.Errorf("register jobs: %w", err)
	}

	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.GzipMiddleware(config.Server.Gzip),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	metrics.Register(engine, config.Metrics)

	api.RegisterGroup(engine, h, config.Server, router.Options{
		Cache:           appCache,
		ResponseTTL:     config.Cache.ResponseTTL,
		MaxRequestBytes: up.MaxRequestBytes(),
	})

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}, nil
}

// Run 启动调度器与 HTTP 服务，ctx 取消后优雅退出.
func (a *App) Run(ctx context.Context) error {
	l := log.Logger()

	srv := &http.Server{
		Addr:              a.config.Server.Addr(),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	a.scheduler.Start()

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", srv.Addr).Str("version", configs.AppVersion).Msg("listingvault listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.Close()
			return err
		}
	case <-ctx.Done():
		l.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)

	return errors.Join(err, a.Close())
}

// Close 停止调度器并释放存储与追踪资源.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		a.scheduler.Stop(),
		a.manager.Close(),
		tracing.ShutdownTracer(ctx),
	)
}
