package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// =========================================
// 聚合输入（AnalyticsRepository读取）
// =========================================

// SaleLine 一条有效订单明细（不含已取消订单）
type SaleLine struct {
	OrderID      uint
	OrderDate    time.Time
	OrderType    string
	CustomerID   *uint
	CustomerType string // 无顾客时为空
	BookID       uint
	Title        string
	Category     string
	Level        string
	Quantity     int
	Revenue      decimal.Decimal
}

// CustomerStat 顾客及其历史订单汇总
type CustomerStat struct {
	CustomerID    uint
	Name          string
	CustomerType  string
	Status        string
	CreatedAt     time.Time
	OrderCount    int
	Revenue       decimal.Decimal
	LastOrderDate *time.Time
}

// StockRow 图书库存快照
type StockRow struct {
	BookID          uint
	Title           string
	Category        string
	ListPrice       decimal.Decimal
	StoreStock      int
	WarehouseStock  int
	ReservedCount   int
	ReorderPoint    *int
	ReorderQuantity int
}

// TotalStock 门店+仓库
func (r StockRow) TotalStock() int { return r.StoreStock + r.WarehouseStock }

// AvailableStock 可用库存
func (r StockRow) AvailableStock() int { return r.TotalStock() - r.ReservedCount }

// Status IN_STOCK / LOW_STOCK / OUT_OF_STOCK
func (r StockRow) Status() string {
	switch {
	case r.TotalStock() == 0:
		return "OUT_OF_STOCK"
	case r.ReorderPoint != nil && r.TotalStock() <= *r.ReorderPoint:
		return "LOW_STOCK"
	default:
		return "IN_STOCK"
	}
}

// =========================================
// 销售报表
// =========================================

type SalesReport struct {
	StartDate         string           `json:"startDate"`
	EndDate           string           `json:"endDate"`
	Category          string           `json:"category,omitempty"`
	TotalRevenue      decimal.Decimal  `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	TotalQuantity     int              `json:"totalQuantity"`
	AverageOrderValue decimal.Decimal  `json:"averageOrderValue"`
	SalesTrends       []TrendPoint     `json:"salesTrends"`
	Rankings          []RankingItem    `json:"rankings"`
	ChannelBreakdown  ChannelBreakdown `json:"channelBreakdown"`
	CategorySales     []CategorySales  `json:"categorySales"`
}

// TrendPoint 按天（或按月）的销售点
type TrendPoint struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	Quantity   int             `json:"quantity"`
	OrderCount int             `json:"orderCount"`
}

type RankingItem struct {
	Rank     int             `json:"rank"`
	BookID   uint            `json:"bookId"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
}

type ChannelBreakdown struct {
	Online decimal.Decimal `json:"online"`
	WalkIn decimal.Decimal `json:"walkIn"`
	Phone  decimal.Decimal `json:"phone"`
}

type CategorySales struct {
	Category   string          `json:"category"`
	Revenue    decimal.Decimal `json:"revenue"`
	Quantity   int             `json:"quantity"`
	GrowthRate float64         `json:"growthRate"` // 较前一等长区间的增长率（%）
}

// =========================================
// 库存报表
// =========================================

type InventoryReport struct {
	ReportDate         string              `json:"reportDate"`
	TotalProducts      int                 `json:"totalProducts"`
	LowStockCount      int                 `json:"lowStockCount"`
	OutOfStockCount    int                 `json:"outOfStockCount"`
	TotalValue         decimal.Decimal     `json:"totalValue"`
	Items              []InventoryItem     `json:"items"`
	ReorderSuggestions []ReorderSuggestion `json:"reorderSuggestions"`
	TurnoverSummary    TurnoverSummary     `json:"turnoverSummary"`
}

type InventoryItem struct {
	BookID         uint   `json:"bookId"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	StoreStock     int    `json:"storeStock"`
	WarehouseStock int    `json:"warehouseStock"`
	AvailableStock int    `json:"availableStock"`
	ReorderPoint   *int   `json:"reorderPoint"`
	Status         string `json:"status"`
}

type ReorderSuggestion struct {
	BookID            uint   `json:"bookId"`
	Title             string `json:"title"`
	Category          string `json:"category"`
	CurrentStock      int    `json:"currentStock"`
	ReorderPoint      int    `json:"reorderPoint"`
	SuggestedQuantity int    `json:"suggestedQuantity"`
}

type TurnoverSummary struct {
	AverageTurnover float64 `json:"averageTurnover"`
	FastMoving      int     `json:"fastMoving"`
	SlowMoving      int     `json:"slowMoving"`
	DeadStock       int     `json:"deadStock"`
}

// 周转分类
const (
	TurnoverFast   = "FAST"
	TurnoverNormal = "NORMAL"
	TurnoverSlow   = "SLOW"
	TurnoverDead   = "DEAD"
)

type TurnoverItem struct {
	BookID         uint    `json:"bookId"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	UnitsSold      int     `json:"unitsSold"`
	AverageStock   float64 `json:"averageStock"`
	TurnoverRate   float64 `json:"turnoverRate"`
	Classification string  `json:"classification"`
}

type TurnoverReport struct {
	Category   string          `json:"category,omitempty"`
	PeriodDays int             `json:"periodDays"`
	Items      []TurnoverItem  `json:"items"`
	Summary    TurnoverSummary `json:"summary"`
}

// =========================================
// 顾客分析
// =========================================

type CustomerAnalytics struct {
	TotalCustomers  int                  `json:"totalCustomers"`
	ActiveCustomers int                  `json:"activeCustomers"`
	NewCustomers    int                  `json:"newCustomers"` // 近30天
	Segments        []CustomerSegment    `json:"segments"`
	RFMAnalysis     []RFMScore           `json:"rfmAnalysis"`
	Trends          []CustomerTrendPoint `json:"trends"`
}

type CustomerSegment struct {
	Segment    string          `json:"segment"`
	Count      int             `json:"count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Percentage float64         `json:"percentage"`
}

// RFM分群
const (
	SegmentChampions = "CHAMPIONS"
	SegmentLoyal     = "LOYAL"
	SegmentPotential = "POTENTIAL"
	SegmentAtRisk    = "AT_RISK"
	SegmentLost      = "LOST"
)

// RFMSegments 分群输出顺序
var RFMSegments = []string{SegmentChampions, SegmentLoyal, SegmentPotential, SegmentAtRisk, SegmentLost}

type RFMScore struct {
	CustomerID uint            `json:"customerId"`
	Name       string          `json:"name"`
	Recency    int             `json:"recency"` // 距最近一次下单的天数
	Frequency  int             `json:"frequency"`
	Monetary   decimal.Decimal `json:"monetary"`
	RScore     int             `json:"rScore"`
	FScore     int             `json:"fScore"`
	MScore     int             `json:"mScore"`
	Segment    string          `json:"segment"`
}

type CustomerTrendPoint struct {
	Month        string          `json:"month"`
	NewCustomers int             `json:"newCustomers"`
	ActiveBuyers int             `json:"activeBuyers"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// =========================================
// 技术趋势
// =========================================

// 趋势标签（前后半段营收变化超过±10%）
const (
	TrendRising    = "RISING"
	TrendStable    = "STABLE"
	TrendDeclining = "DECLINING"
)

type TechTrendReport struct {
	Days       int         `json:"days"`
	StartDate  string      `json:"startDate"`
	EndDate    string      `json:"endDate"`
	Categories []TechTrend `json:"categories"`
}

type TechTrend struct {
	Category        string          `json:"category"`
	Revenue         decimal.Decimal `json:"revenue"`
	Quantity        int             `json:"quantity"`
	PreviousRevenue decimal.Decimal `json:"previousRevenue"` // 前半段
	RecentRevenue   decimal.Decimal `json:"recentRevenue"`   // 后半段
	GrowthRate      float64         `json:"growthRate"`
	Trend           string          `json:"trend"`
}

type CategoryTrend struct {
	Category string          `json:"category"`
	Days     int             `json:"days"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
	Series   []TrendPoint    `json:"series"`
}

// =========================================
// 仪表盘
// =========================================

type DashboardKPIs struct {
	Date                 string          `json:"date"`
	TodayRevenue         decimal.Decimal `json:"todayRevenue"`
	TodayOrders          int             `json:"todayOrders"`
	MonthRevenue         decimal.Decimal `json:"monthRevenue"`
	MonthOrders          int             `json:"monthOrders"`
	AverageOrderValue    decimal.Decimal `json:"averageOrderValue"`
	MonthOverMonthGrowth float64         `json:"monthOverMonthGrowth"`
	Customers            CustomerKPIs    `json:"customers"`
	Inventory            InventoryKPIs   `json:"inventory"`
}

type CustomerKPIs struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	NewThisMonth int `json:"newThisMonth"`
}

type InventoryKPIs struct {
	TotalProducts int             `json:"totalProducts"`
	LowStock      int             `json:"lowStock"`
	OutOfStock    int             `json:"outOfStock"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

type DashboardTrends struct {
	Last7Days  []TrendPoint `json:"last7Days"`
	Last30Days []TrendPoint `json:"last30Days"`
}

// 告警
const (
	AlertTypeTrend = "TREND"
	AlertTypeStock = "STOCK"

	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

type Alert struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Category string `json:"category,omitempty"`
	BookID   uint   `json:"bookId,omitempty"`
	Message  string `json:"message"`
}

// =========================================
// 下钻
// =========================================

// 下钻维度
const (
	DimensionTechCategory    = "tech_category"
	DimensionCustomerSegment = "customer_segment"
	DimensionTimePeriod      = "time_period"
	DimensionBookLevel       = "book_level"
)

type DrillDownResult struct {
	ReportType string         `json:"reportType"`
	Dimension  string         `json:"dimension"`
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
	Rows       []DrillDownRow `json:"rows"`
}

type DrillDownRow struct {
	Key        string          `json:"key"`
	Revenue    decimal.Decimal `json:"revenue"`
	Quantity   int             `json:"quantity"`
	OrderCount int             `json:"orderCount"`
	Share      float64         `json:"share"` // 营收占比（%）
}
