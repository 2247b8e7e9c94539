package dto

// DateRangeQuery 必填的日期区间（含首尾两天）
type DateRangeQuery struct {
	StartDate string `form:"startDate" binding:"required" example:"2024-04-01"`
	EndDate   string `form:"endDate" binding:"required" example:"2024-04-30"`
	Category  string `form:"category" binding:"max=100"`
}

// RankingQuery 畅销榜
type RankingQuery struct {
	Category string `form:"category" binding:"max=100"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}

// TechTrendQuery 技术趋势窗口
type TechTrendQuery struct {
	Category string `form:"category" binding:"max=100"`
	Days     int    `form:"days" binding:"omitempty,min=1,max=365" example:"90"`
}

// CustomReportRequest 按分类过滤的销售报表
type CustomReportRequest struct {
	ReportType string `json:"reportType" binding:"required" example:"SALES"`
	StartDate  string `json:"startDate" binding:"required" example:"2024-04-01"`
	EndDate    string `json:"endDate" binding:"required" example:"2024-04-30"`
	Category   string `json:"category" example:"GO"`
	Parameters string `json:"parameters"`
}

// CreateCustomReportRequest 生成并保存报表，日期省略时为最近30天
type CreateCustomReportRequest struct {
	Name       string            `json:"name" example:"4月Go言語売上"`
	ReportType string            `json:"reportType" binding:"required" example:"SALES_BY_TECH_CATEGORY"`
	StartDate  string            `json:"startDate" example:"2024-04-01"`
	EndDate    string            `json:"endDate" example:"2024-04-30"`
	Category   string            `json:"category"`
	Parameters map[string]string `json:"parameters"`
}

// TemplateRequest 保存报表模板
type TemplateRequest struct {
	Code               string   `json:"code" binding:"required,max=50" example:"MONTHLY_GO"`
	Name               string   `json:"name" binding:"required,max=100"`
	Description        string   `json:"description" binding:"max=500"`
	ReportType         string   `json:"reportType" binding:"required"`
	Parameters         []string `json:"parameters"`
	VisualizationTypes []string `json:"visualizationTypes"`
}

// DrillDownQuery 下钻条件
type DrillDownQuery struct {
	ReportType string `form:"reportType" binding:"required" example:"SALES"`
	Dimension  string `form:"drillDownDimension" binding:"required,oneof=tech_category customer_segment time_period book_level" example:"tech_category"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Category   string `form:"category"`
}

// ExportQuery 导出格式
type ExportQuery struct {
	Format string `form:"format" example:"CSV"`
}
