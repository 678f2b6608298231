// Package log 提供基于 zerolog 的全局 logger，输出到 stderr 并可选写入 lumberjack 轮转文件.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/listingvault/pkg/configs"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Setup 按给定配置重建 logger，可重复调用.
func Setup(logCfg configs.LogConfig, debug bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(logCfg.Level))
	if err != nil || logCfg.Level == "" {
		if logCfg.Level != "" {
			fmt.Fprintf(os.Stderr, "invalid log level %q, defaulting to info\n", logCfg.Level)
		}

		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	var writers []io.Writer

	if logCfg.Format == "json" {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.Kitchen
		}))
	}

	if logCfg.EnableFile {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logCfg.FilePath,
			MaxSize:    logCfg.MaxSize,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAge,
			Compress:   logCfg.Compress,
		})
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With()
	if debug {
		ctx = ctx.Caller().Stack()

		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger = ctx.Timestamp().Logger()
	log.Logger = logger
}

// Logger 返回全局 logger.
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogger 替换全局 logger，返回恢复原 logger 的函数.
func SetLogger(l zerolog.Logger) func() {
	prev := logger
	logger = l

	return func() { logger = prev }
}

// GinWriter 把 Gin 文本行转发为 zerolog 事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

// NewGinWriter 创建 GinWriter，用于 gin.DefaultWriter 与 gin.DefaultErrorWriter.
func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	w.logger.WithLevel(w.level).Str("component", "gin").Msg(msg)

	return len(p), nil
}
