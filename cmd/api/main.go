// @title                      技术书店管理系统 API
// @version                    1.0
// @description                图书目录、库存、订单、顾客、库存优化与报表
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                格式：Bearer {access_token}
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
	"github.com/xiebiao/techbookstore/pkg/logger"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	l := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, Format: cfg.Log.Format})
	metrics.InitMetrics()

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Log.Env,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	app, cleanup, err := InitializeApp(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("初始化应用失败")
	}

	go func() {
		l.Info().
			Str("addr", app.Server.Addr).
			Str("mode", cfg.Server.Mode).
			Bool("mq", cfg.MQ.Enabled).
			Str("cache", cfg.Cache.Backend).
			Msg("HTTP服务启动")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("HTTP服务启动失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	l.Info().Str("signal", sig.String()).Msg("正在关闭服务")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("HTTP服务强制关闭")
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		l.Warn().Err(err).Msg("关闭链路追踪失败")
	}
	l.Info().Msg("服务已关闭")
}
