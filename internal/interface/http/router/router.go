// Package router 注册全部HTTP路由
//
// 权限：查询类接口（图书、分类、库存、库存优化、报表）公开；
// 写操作需要登录；图书的编辑/删除与报表批处理需要管理员。
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/techbookstore/docs"
	"github.com/xiebiao/techbookstore/internal/interface/http/handler"
	"github.com/xiebiao/techbookstore/internal/interface/http/middleware"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Book         *handler.BookHandler
	Inventory    *handler.InventoryHandler
	Order        *handler.OrderHandler
	Customer     *handler.CustomerHandler
	Optimization *handler.OptimizationHandler
	Report       *handler.ReportHandler
	Staff        *handler.StaffHandler
}

// Options 引擎选项
type Options struct {
	Mode    string // debug | release | test
	Swagger bool
}

// New 创建Gin引擎
// 中间件顺序：Tracing → AccessLog → Metrics → Recovery，
// AccessLog在Tracing之后才能取到trace_id。
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, logger zerolog.Logger) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.Tracing(),
		middleware.AccessLog(logger),
		middleware.Metrics(),
		middleware.Recovery(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireAdmin()

	v1 := r.Group("/api/v1")

	staff := v1.Group("/staff")
	{
		staff.POST("/register", auth.OptionalAuth(), h.Staff.Register)
		staff.POST("/login", h.Staff.Login)
		staff.POST("/refresh", h.Staff.Refresh)
		staff.POST("/logout", requireAuth, h.Staff.Logout)
		staff.GET("/profile", requireAuth, h.Staff.Profile)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)
		books.POST("", requireAuth, h.Book.CreateBook)
		books.PUT("/:id", requireAuth, requireAdmin, h.Book.UpdateBook)
		books.DELETE("/:id", requireAuth, requireAdmin, h.Book.DeleteBook)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.Book.ListCategories)
		categories.POST("", requireAuth, h.Book.CreateCategory)
	}

	inventory := v1.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.GET("/alerts", h.Inventory.Alerts)
		inventory.GET("/out-of-stock", h.Inventory.OutOfStock)
		inventory.GET("/:bookId", h.Inventory.Get)
		inventory.GET("/:bookId/transactions", h.Inventory.Transactions)

		inventory.POST("/receive", requireAuth, h.Inventory.Receive)
		inventory.POST("/sell", requireAuth, h.Inventory.Sell)
		inventory.POST("/adjust", requireAuth, h.Inventory.Adjust)
		inventory.PUT("/:bookId/settings", requireAuth, h.Inventory.UpdateSettings)
	}

	orders := v1.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/status-counts", h.Order.StatusCounts)
		orders.GET("/number/:orderNumber", h.Order.GetByNumber)
		orders.GET("/customer/:customerId", h.Order.ListByCustomer)
		orders.GET("/:id", h.Order.GetOrder)
		orders.POST("/:id/confirm", h.Order.Confirm)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
	}

	customers := v1.Group("/customers")
	customers.Use(requireAuth)
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	optimization := v1.Group("/optimization")
	{
		optimization.GET("/optimal-stock/:bookId", h.Optimization.OptimalStock)
		optimization.POST("/optimal-stock", requireAuth, h.Optimization.SaveSettings)
		optimization.POST("/order-suggestions", h.Optimization.OrderSuggestions)
		optimization.GET("/reorder-needed", h.Optimization.ReorderNeeded)
		optimization.GET("/constraint-analysis", h.Optimization.ConstraintAnalysis)
		optimization.POST("/bulk-calculate", h.Optimization.BulkCalculate)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/sales/trend", h.Report.SalesTrend)
		reports.GET("/sales/ranking", h.Report.SalesRanking)

		reports.GET("/inventory", h.Report.Inventory)
		reports.GET("/inventory/turnover", h.Report.Turnover)
		reports.GET("/inventory/reorder", h.Report.Reorder)

		reports.GET("/customers", h.Report.Customers)
		reports.GET("/customers/rfm", h.Report.RFM)
		reports.GET("/customers/segments", h.Report.Segments)

		reports.GET("/tech-trends", h.Report.TechTrends)
		reports.GET("/tech-trends/categories", h.Report.CategoryTrend)

		reports.GET("/dashboard/kpis", h.Report.KPIs)
		reports.GET("/dashboard/trends", h.Report.DashboardTrends)
		reports.GET("/dashboard/alerts", h.Report.Alerts)

		reports.POST("/custom", h.Report.Custom)
		reports.POST("/custom-reports", requireAuth, h.Report.CreateCustomReport)
		reports.GET("/custom-reports/templates", h.Report.Templates)
		reports.GET("/custom-reports/:reportId", h.Report.GetStored)
		reports.GET("/templates", h.Report.Templates)
		reports.POST("/templates", requireAuth, h.Report.SaveTemplate)
		reports.POST("/drill-down", h.Report.DrillDown)
		reports.GET("/export/:reportId", h.Report.Export)

		reports.POST("/admin/batch/:batchType", requireAuth, requireAdmin, h.Report.RunBatch)
	}

	return r
}
