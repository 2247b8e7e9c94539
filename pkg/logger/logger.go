// Package logger 基于zerolog的结构化日志
//
// 开发环境输出易读的控制台格式，其他环境输出JSON（便于日志平台采集）。
// New会同时替换zerolog的全局Logger，未注入Logger的代码可直接使用 log.Info() 等函数。
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config 日志配置
type Config struct {
	Env    string // development | production | test
	Level  string // trace | debug | info | warn | error
	Format string // console | json（为空时按Env推断）
	Output io.Writer
}

// Logger zerolog包装（便于依赖注入）
type Logger struct {
	zl zerolog.Logger
}

// New 创建结构化日志
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}

	format := cfg.Format
	if format == "" {
		format = "json"
		if cfg.Env == "development" {
			format = "console"
		}
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// 替换全局Logger；Context中没有Logger时 log.Ctx 也回落到它
	log.Logger = zl
	zerolog.DefaultContextLogger = &log.Logger

	return &Logger{zl: zl}
}

// Nop 丢弃所有输出（测试用）
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With 创建带固定字段的子Logger
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Named 返回带component字段的子Logger
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog 返回底层zerolog.Logger
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
