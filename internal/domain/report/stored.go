package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// 报表类型
const (
	TypeSales                 = "SALES"
	TypeInventory             = "INVENTORY"
	TypeCustomer              = "CUSTOMER"
	TypeSalesByTechCategory   = "SALES_BY_TECH_CATEGORY"
	TypeCustomerTechJourney   = "CUSTOMER_TECH_JOURNEY"
	TypeInventoryOptimization = "INVENTORY_OPTIMIZATION"
	TypeTechTrendForecast     = "TECH_TREND_FORECAST"
	TypeBatchSales            = "BATCH_SALES"
)

// StatusCompleted 已生成
const StatusCompleted = "COMPLETED"

// 导出格式
const (
	FormatPDF   = "PDF"
	FormatExcel = "EXCEL"
	FormatCSV   = "CSV"
	FormatJSON  = "JSON"
)

// StoredReport 已持久化的报表（自定义报表、批处理报表），导出的数据来源
type StoredReport struct {
	ID         string
	Name       string
	ReportType string
	Status     string
	Parameters map[string]string
	StartDate  *time.Time
	EndDate    *time.Time
	Content    json.RawMessage // 报表主体（SalesReport等）的JSON
	CreatedBy  string
	CreatedAt  time.Time
}

// NewStoredReport 生成带UUID的报表记录
func NewStoredReport(name, reportType string, params map[string]string, r *DateRange, content any, createdBy string, now time.Time) (*StoredReport, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	sr := &StoredReport{
		ID:         uuid.NewString(),
		Name:       name,
		ReportType: reportType,
		Status:     StatusCompleted,
		Parameters: params,
		Content:    body,
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}
	if r != nil {
		start, end := r.Start, r.End
		sr.StartDate, sr.EndDate = &start, &end
	}
	return sr, nil
}

// Template 报表模板
type Template struct {
	ID                 uint
	Code               string
	Name               string
	Description        string
	ReportType         string
	Parameters         []string
	VisualizationTypes []string
	Builtin            bool
	CreatedAt          time.Time
}

// BuiltinTemplates 内置模板，不落库
func BuiltinTemplates() []*Template {
	return []*Template{
		{Code: "sales-summary", Name: "Sales Summary", Description: "Revenue, orders and average order value for a period", ReportType: TypeSales,
			Parameters: []string{"startDate", "endDate"}, VisualizationTypes: []string{"line", "bar"}, Builtin: true},
		{Code: "sales-by-tech-category", Name: "Sales by Tech Category", Description: "Revenue and growth per technology category", ReportType: TypeSalesByTechCategory,
			Parameters: []string{"startDate", "endDate", "category"}, VisualizationTypes: []string{"bar", "pie"}, Builtin: true},
		{Code: "bestseller-ranking", Name: "Bestseller Ranking", Description: "Top selling books by revenue", ReportType: TypeSales,
			Parameters: []string{"category", "limit"}, VisualizationTypes: []string{"table"}, Builtin: true},
		{Code: "inventory-status", Name: "Inventory Status", Description: "Stock levels, low stock and out of stock books", ReportType: TypeInventory,
			Parameters: []string{}, VisualizationTypes: []string{"table", "gauge"}, Builtin: true},
		{Code: "inventory-turnover", Name: "Inventory Turnover", Description: "90-day turnover per book", ReportType: TypeInventoryOptimization,
			Parameters: []string{"category"}, VisualizationTypes: []string{"bar", "table"}, Builtin: true},
		{Code: "customer-rfm", Name: "Customer RFM", Description: "Recency, frequency and monetary scoring", ReportType: TypeCustomer,
			Parameters: []string{}, VisualizationTypes: []string{"scatter", "table"}, Builtin: true},
		{Code: "customer-tech-journey", Name: "Customer Tech Journey", Description: "Purchases by book level per customer segment", ReportType: TypeCustomerTechJourney,
			Parameters: []string{"startDate", "endDate"}, VisualizationTypes: []string{"sankey", "bar"}, Builtin: true},
		{Code: "tech-trend-forecast", Name: "Tech Trend Forecast", Description: "Rising and declining technology categories", ReportType: TypeTechTrendForecast,
			Parameters: []string{"days"}, VisualizationTypes: []string{"line"}, Builtin: true},
		{Code: "dashboard-overview", Name: "Dashboard Overview", Description: "Daily KPIs and alerts", ReportType: TypeSales,
			Parameters: []string{}, VisualizationTypes: []string{"kpi", "line"}, Builtin: true},
	}
}

// IsBuiltinCode 是否内置模板编码
func IsBuiltinCode(code string) bool {
	for _, t := range BuiltinTemplates() {
		if t.Code == code {
			return true
		}
	}
	return false
}
