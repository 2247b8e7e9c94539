package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/pkg/tracing"
)

// HeaderRequestID 请求ID响应头，客户端传入时沿用
const HeaderRequestID = "X-Request-ID"

// slowRequest 超过该耗时记为警告
const slowRequest = 3 * time.Second

// AccessLog 请求日志
// 每个请求的子Logger写入request.Context，下游用 log.Ctx(ctx) 即可带上request_id和trace_id
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		ctx := c.Request.Context()
		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("trace_id", tracing.ExtractTraceID(ctx)).
			Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(ctx))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = reqLogger.Error()
		case status >= 400 || latency > slowRequest:
			ev = reqLogger.Warn()
		default:
			ev = reqLogger.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("HTTP请求")
	}
}
