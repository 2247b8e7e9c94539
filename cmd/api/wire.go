//go:build wireinject
// +build wireinject

// 依赖注入配置，修改后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/techbookstore/internal/application/book"
	appcustomer "github.com/xiebiao/techbookstore/internal/application/customer"
	appinventory "github.com/xiebiao/techbookstore/internal/application/inventory"
	appoptimization "github.com/xiebiao/techbookstore/internal/application/optimization"
	apporder "github.com/xiebiao/techbookstore/internal/application/order"
	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	appstaff "github.com/xiebiao/techbookstore/internal/application/staff"
	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
	"github.com/xiebiao/techbookstore/internal/infrastructure/export"
	"github.com/xiebiao/techbookstore/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/techbookstore/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/techbookstore/internal/interface/http/handler"
	"github.com/xiebiao/techbookstore/internal/interface/http/middleware"
	"github.com/xiebiao/techbookstore/internal/interface/http/router"
	"github.com/xiebiao/techbookstore/pkg/logger"
)

// infrastructureSet 数据库、Redis、缓存、消息
var infrastructureSet = wire.NewSet(
	provideZerolog,
	provideDB,
	provideRedis,
	wire.Bind(new(goredis.UniversalClient), new(*goredis.Client)),
	provideReportCache,
	providePublisher,
	provideExporter,
	wire.Bind(new(report.Exporter), new(*export.Exporter)),
)

// repositorySet 仓储与事务
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewCategoryRepository,
	mysql.NewInventoryRepository,
	mysql.NewOrderRepository,
	mysql.NewCustomerRepository,
	mysql.NewSettingsRepository,
	mysql.NewReportRepository,
	mysql.NewStaffRepository,
	mysql.NewAnalyticsRepository,
	wire.Bind(new(report.AnalyticsRepository), new(*mysql.AnalyticsRepository)),
	wire.Bind(new(appoptimization.SalesReader), new(*mysql.AnalyticsRepository)),
	mysql.NewTxManager,
	wire.Bind(new(tx.Manager), new(*mysql.TxManager)),
	redis.NewSessionStore,
	wire.Bind(new(appstaff.SessionStore), new(*redis.SessionStore)),
)

var domainSet = wire.NewSet(
	book.NewService,
	provideStaffService,
)

var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListCategoriesUseCase,
	appbook.NewCreateCategoryUseCase,

	appinventory.NewQueryUseCase,
	appinventory.NewStockUseCase,

	apporder.NewCreateOrderUseCase,
	apporder.NewQueryUseCase,
	apporder.NewWorkflowUseCase,

	appcustomer.NewService,
	appoptimization.NewService,

	provideReportTTL,
	appreport.NewService,

	appstaff.NewRegisterUseCase,
	provideLoginUseCase,
	appstaff.NewLogoutUseCase,
	appstaff.NewRefreshUseCase,
	appstaff.NewProfileUseCase,
)

var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
)

var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewInventoryHandler,
	handler.NewOrderHandler,
	handler.NewCustomerHandler,
	handler.NewOptimizationHandler,
	handler.NewReportHandler,
	handler.NewStaffHandler,
	wire.Struct(new(router.Handlers), "*"),
)

// InitializeApp 组装HTTP服务；cleanup按创建的逆序释放连接
func InitializeApp(cfg *config.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideEngine,
		provideApp,
	)
	return nil, nil, nil
}
