// worker 订阅订单与库存事件，淘汰Redis中受影响的报表缓存
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/techbookstore/internal/application/event"
	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
	"github.com/xiebiao/techbookstore/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/techbookstore/pkg/logger"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	l := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, Format: cfg.Log.Format})
	zl := l.Named("worker").Zerolog()
	metrics.InitMetrics()

	if !cfg.MQ.Enabled {
		l.Fatal().Msg("mq.enabled=false，worker无事件可消费")
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend == "memory" {
		// 进程内缓存无法跨进程淘汰
		l.Warn().Str("backend", cfg.Cache.Backend).Bool("enabled", cfg.Cache.Enabled).Msg("未使用Redis报表缓存，worker退出")
		return
	}

	client, err := redis.NewClient(cfg, zl)
	if err != nil {
		l.Fatal().Err(err).Msg("连接Redis失败")
	}
	defer client.Close()

	invalidator := appreport.NewInvalidator(redis.NewReportCache(client, "", cfg.Cache.Sales), zl)

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.Queue,
		event.InvalidationRoutingKeys,
		zl,
	)
	if err != nil {
		l.Fatal().Err(err).Msg("创建消息消费者失败")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(zl.WithContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("queue", cfg.MQ.Queue).Strs("routing_keys", event.InvalidationRoutingKeys).Msg("worker启动")
	if err := consumer.Consume(ctx, event.NewCacheInvalidator(invalidator, zl)); err != nil {
		l.Error().Err(err).Msg("消费中断")
		return
	}
	l.Info().Msg("worker已关闭")
}
