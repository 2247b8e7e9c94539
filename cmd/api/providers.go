package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	appstaff "github.com/xiebiao/techbookstore/internal/application/staff"
	"github.com/xiebiao/techbookstore/internal/domain/staff"
	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
	"github.com/xiebiao/techbookstore/internal/infrastructure/export"
	"github.com/xiebiao/techbookstore/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/techbookstore/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/techbookstore/internal/interface/http/middleware"
	"github.com/xiebiao/techbookstore/internal/interface/http/router"
	"github.com/xiebiao/techbookstore/pkg/cache"
	"github.com/xiebiao/techbookstore/pkg/jwt"
	"github.com/xiebiao/techbookstore/pkg/logger"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

// App 组装完成的HTTP服务
type App struct {
	Server *http.Server
	Logger zerolog.Logger
}

func provideZerolog(l *logger.Logger) zerolog.Logger {
	return l.Zerolog()
}

// provideDB 数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config, log zerolog.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideReportCache 报表缓存
// cache.enabled=false时不缓存；backend=memory只用进程内LRU；
// backend=redis时Redis由熔断器保护，熔断期间降级到LRU。
func provideReportCache(cfg *config.Config, client *goredis.Client, log zerolog.Logger) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.Noop{}, nil
	}
	memory, err := cache.NewMemoryCache(cfg.Cache.MemorySize, cfg.Cache.Sales)
	if err != nil {
		return nil, fmt.Errorf("创建内存缓存失败: %w", err)
	}
	if cfg.Cache.Backend == "memory" {
		return memory, nil
	}

	cacheLog := log.With().Str("component", "report_cache").Logger()
	primary := redis.NewReportCache(client, "", cfg.Cache.Sales)
	return cache.NewFallback(primary, memory, cache.NewBreaker("report-cache", cacheLog), cacheLog), nil
}

// providePublisher mq.enabled=false时事件直接丢弃
func providePublisher(cfg *config.Config, log zerolog.Logger) (mq.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

// provideExporter 报表导出使用日文数字格式
func provideExporter() *export.Exporter {
	return export.NewExporter("ja")
}

// provideReportTTL 未配置的项使用默认缓存时间
func provideReportTTL(cfg *config.Config) appreport.TTL {
	ttl := appreport.DefaultTTL()
	c := cfg.Cache
	return appreport.TTL{
		Sales:      orDefault(c.Sales, ttl.Sales),
		Inventory:  orDefault(c.Inventory, ttl.Inventory),
		Customers:  orDefault(c.Customers, ttl.Customers),
		TechTrends: orDefault(c.TechTrends, ttl.TechTrends),
		Dashboard:  orDefault(c.Dashboard, ttl.Dashboard),
		Custom:     orDefault(c.Custom, ttl.Custom),
	}
}

func orDefault(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideStaffService(repo staff.Repository, cfg *config.Config) staff.Service {
	return staff.NewService(repo, cfg.JWT.BcryptCost)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(
	svc staff.Service,
	jwtManager *jwt.Manager,
	sessions appstaff.SessionStore,
	cfg *config.Config,
	log zerolog.Logger,
) *appstaff.LoginUseCase {
	return appstaff.NewLoginUseCase(svc, jwtManager, sessions, cfg.JWT.RefreshTokenExpire, log)
}

func provideEngine(cfg *config.Config, h router.Handlers, auth *middleware.AuthMiddleware, log zerolog.Logger) *gin.Engine {
	return router.New(router.Options{
		Mode:    cfg.Server.Mode,
		Swagger: cfg.Server.Mode != gin.ReleaseMode,
	}, h, auth, log)
}

// provideApp HTTP服务外层包一层CORS
func provideApp(cfg *config.Config, engine *gin.Engine, log zerolog.Logger) *App {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return &App{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      c.Handler(engine),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			BaseContext:  func(net.Listener) context.Context { return log.WithContext(context.Background()) },
		},
		Logger: log,
	}
}
