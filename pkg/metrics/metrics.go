// Package metrics 提供 Prometheus 指标.
// HTTP 指标由中间件记录，上传与校验指标由服务层记录.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//	metrics.Register(engine, cfg.Metrics)
//
//	metrics.UploadFiles.WithLabelValues("accepted", "").Inc()
package metrics

import (
	"net/http"
	"net/http/pprof"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/listingvault/pkg/configs"
)

var (
	// RequestCounter HTTP 请求计数.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration HTTP 请求耗时.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UploadFiles 单文件处理结果，reason 为拒绝原因代码.
	UploadFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_files_total",
			Help: "Uploaded files by outcome",
		},
		[]string{"outcome", "reason"},
	)

	// UploadBatches 批次结论: all_accepted、partial、all_rejected、refused 或 failed.
	UploadBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_batches_total",
			Help: "Upload batches by verdict",
		},
		[]string{"verdict"},
	)

	// UploadBytes 已存储的图片字节数.
	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upload_stored_bytes_total",
			Help: "Bytes written to image storage",
		},
	)

	// PropertyValidations 房源校验结果.
	PropertyValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_validations_total",
			Help: "Property validations by type and result",
		},
		[]string{"type", "result"},
	)

	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 注册全部指标，重复调用无副作用.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	initOnce.Do(func() {
		if config.RuntimeMetrics {
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}

		registry.MustRegister(
			RequestCounter, RequestDuration,
			UploadFiles, UploadBatches, UploadBytes,
			PropertyValidations,
		)
	})

	return nil
}

// Register 在 engine 上挂载 /metrics 与可选的 pprof.
func Register(engine *gin.Engine, config configs.MetricsConfig) {
	if !config.Enabled {
		return
	}

	path := config.Path
	if path == "" {
		path = "/metrics"
	}

	engine.GET(path, gin.WrapH(Handler()))

	if config.Pprof {
		pp := engine.Group("/debug/pprof")
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
		pp.GET("/:name", func(c *gin.Context) {
			pprof.Handler(c.Param("name")).ServeHTTP(c.Writer, c.Request)
		})
	}
}

// ObserveRequest 记录一次 HTTP 请求.
func ObserveRequest(method, route string, status int, seconds float64) {
	RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// GetRegistry 获取 Prometheus 注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// Handler 返回注册表的 HTTP 处理器.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
