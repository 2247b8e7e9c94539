package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/internal/interface/http/middleware"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// ReportHandler 报表与分析
type ReportHandler struct {
	svc *appreport.Service
}

// NewReportHandler 创建报表处理器
func NewReportHandler(svc *appreport.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) salesRequest(c *gin.Context) (appreport.SalesRequest, bool) {
	var q dto.DateRangeQuery
	if !bindQuery(c, &q) {
		return appreport.SalesRequest{}, false
	}
	start, err := dto.RequireDate("startDate", q.StartDate)
	if fail(c, err) {
		return appreport.SalesRequest{}, false
	}
	end, err := dto.RequireDate("endDate", q.EndDate)
	if fail(c, err) {
		return appreport.SalesRequest{}, false
	}
	return appreport.SalesRequest{StartDate: start, EndDate: end, Category: q.Category}, true
}

// Sales 区间销售报表
// @Summary      销售报表
// @Description  日期含首尾两天；开始日期不能早于5年前，结束日期不能晚于明天
// @Tags         报表-销售
// @Produce      json
// @Param        startDate query string true  "开始日期" example(2024-04-01)
// @Param        endDate   query string true  "结束日期" example(2024-04-30)
// @Param        category  query string false "分类编码"
// @Success      200 {object} response.Response{data=report.SalesReport}
// @Failure      400 {object} response.Response "日期范围非法"
// @Router       /api/v1/reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	req, ok := h.salesRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.Sales(c.Request.Context(), req)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// SalesTrend 日销售序列
// @Summary      销售趋势
// @Tags         报表-销售
// @Produce      json
// @Param        startDate query string true  "开始日期"
// @Param        endDate   query string true  "结束日期"
// @Param        category  query string false "分类编码"
// @Success      200 {object} response.Response{data=appreport.SalesTrend}
// @Router       /api/v1/reports/sales/trend [get]
func (h *ReportHandler) SalesTrend(c *gin.Context) {
	req, ok := h.salesRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.Trend(c.Request.Context(), req)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// SalesRanking 最近30天畅销榜
// @Summary      畅销榜
// @Tags         报表-销售
// @Produce      json
// @Param        category query string false "分类编码"
// @Param        limit    query int    false "条数(1-100)" default(10)
// @Success      200 {object} response.Response{data=appreport.SalesRanking}
// @Router       /api/v1/reports/sales/ranking [get]
func (h *ReportHandler) SalesRanking(c *gin.Context) {
	var q dto.RankingQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.svc.Ranking(c.Request.Context(), q.Category, q.Limit)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Inventory 库存报表
// @Summary      库存报表
// @Tags         报表-库存
// @Produce      json
// @Success      200 {object} response.Response{data=report.InventoryReport}
// @Router       /api/v1/reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	result, err := h.svc.Inventory(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Turnover 库存周转
// @Summary      库存周转
// @Description  周转率 = 最近90天销量 / 平均库存
// @Tags         报表-库存
// @Produce      json
// @Param        category query string false "分类编码"
// @Success      200 {object} response.Response{data=report.TurnoverReport}
// @Router       /api/v1/reports/inventory/turnover [get]
func (h *ReportHandler) Turnover(c *gin.Context) {
	result, err := h.svc.Turnover(c.Request.Context(), c.Query("category"))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Reorder 补货建议
// @Summary      补货建议
// @Tags         报表-库存
// @Produce      json
// @Success      200 {object} response.Response{data=[]report.ReorderSuggestion}
// @Router       /api/v1/reports/inventory/reorder [get]
func (h *ReportHandler) Reorder(c *gin.Context) {
	result, err := h.svc.Reorder(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Customers 顾客分析
// @Summary      顾客分析
// @Tags         报表-顾客
// @Produce      json
// @Success      200 {object} response.Response{data=report.CustomerAnalytics}
// @Router       /api/v1/reports/customers [get]
func (h *ReportHandler) Customers(c *gin.Context) {
	result, err := h.svc.Customers(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// RFM RFM分析
// @Summary      RFM分析
// @Tags         报表-顾客
// @Produce      json
// @Success      200 {object} response.Response{data=appreport.RFMAnalysis}
// @Router       /api/v1/reports/customers/rfm [get]
func (h *ReportHandler) RFM(c *gin.Context) {
	result, err := h.svc.RFM(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Segments 顾客分群
// @Summary      顾客分群
// @Tags         报表-顾客
// @Produce      json
// @Success      200 {object} response.Response{data=[]report.CustomerSegment}
// @Router       /api/v1/reports/customers/segments [get]
func (h *ReportHandler) Segments(c *gin.Context) {
	result, err := h.svc.Segments(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// TechTrends 技术趋势
// @Summary      技术趋势
// @Description  比较窗口后半段与前半段的销售额，±10%为阈值
// @Tags         报表-技术趋势
// @Produce      json
// @Param        days query int false "窗口天数(1-365)" default(90)
// @Success      200 {object} response.Response{data=report.TechTrendReport}
// @Router       /api/v1/reports/tech-trends [get]
func (h *ReportHandler) TechTrends(c *gin.Context) {
	var q dto.TechTrendQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.svc.TechTrends(c.Request.Context(), q.Days)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// CategoryTrend 单个分类的趋势
// @Summary      分类趋势
// @Tags         报表-技术趋势
// @Produce      json
// @Param        category query string true  "分类编码"
// @Param        days     query int    false "窗口天数(1-365)" default(90)
// @Success      200 {object} response.Response{data=report.CategoryTrend}
// @Router       /api/v1/reports/tech-trends/categories [get]
func (h *ReportHandler) CategoryTrend(c *gin.Context) {
	var q dto.TechTrendQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.svc.CategoryTrend(c.Request.Context(), q.Category, q.Days)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// KPIs 仪表盘指标
// @Summary      仪表盘KPI
// @Tags         报表-仪表盘
// @Produce      json
// @Success      200 {object} response.Response{data=report.DashboardKPIs}
// @Router       /api/v1/reports/dashboard/kpis [get]
func (h *ReportHandler) KPIs(c *gin.Context) {
	result, err := h.svc.KPIs(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// DashboardTrends 最近7天与30天
// @Summary      仪表盘趋势
// @Tags         报表-仪表盘
// @Produce      json
// @Success      200 {object} response.Response{data=report.DashboardTrends}
// @Router       /api/v1/reports/dashboard/trends [get]
func (h *ReportHandler) DashboardTrends(c *gin.Context) {
	result, err := h.svc.DashboardTrends(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Alerts 趋势与库存预警
// @Summary      仪表盘预警
// @Tags         报表-仪表盘
// @Produce      json
// @Success      200 {object} response.Response{data=[]report.Alert}
// @Router       /api/v1/reports/dashboard/alerts [get]
func (h *ReportHandler) Alerts(c *gin.Context) {
	result, err := h.svc.Alerts(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Custom 按分类过滤的销售报表
// @Summary      自定义销售报表
// @Tags         报表-自定义
// @Accept       json
// @Produce      json
// @Param        request body dto.CustomReportRequest true "报表条件"
// @Success      200 {object} response.Response{data=report.SalesReport}
// @Router       /api/v1/reports/custom [post]
func (h *ReportHandler) Custom(c *gin.Context) {
	var req dto.CustomReportRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := dto.RequireDate("startDate", req.StartDate)
	if fail(c, err) {
		return
	}
	end, err := dto.RequireDate("endDate", req.EndDate)
	if fail(c, err) {
		return
	}
	result, err := h.svc.Custom(c.Request.Context(), appreport.CustomRequest{
		ReportType: req.ReportType,
		StartDate:  start,
		EndDate:    end,
		Category:   req.Category,
		Parameters: req.Parameters,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// CreateCustomReport 生成并保存报表
// @Summary      保存自定义报表
// @Description  类型：SALES_BY_TECH_CATEGORY、CUSTOMER_TECH_JOURNEY、INVENTORY_OPTIMIZATION、TECH_TREND_FORECAST，其他按销售报表处理
// @Tags         报表-自定义
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCustomReportRequest true "报表定义"
// @Success      200 {object} response.Response{data=appreport.StoredReportDTO}
// @Router       /api/v1/reports/custom-reports [post]
func (h *ReportHandler) CreateCustomReport(c *gin.Context) {
	var req dto.CreateCustomReportRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := dto.ParseDate("startDate", req.StartDate)
	if fail(c, err) {
		return
	}
	end, err := dto.ParseDate("endDate", req.EndDate)
	if fail(c, err) {
		return
	}
	result, err := h.svc.CreateCustomReport(c.Request.Context(), appreport.CreateCustomRequest{
		Name:       req.Name,
		ReportType: req.ReportType,
		StartDate:  start,
		EndDate:    end,
		Category:   req.Category,
		Parameters: req.Parameters,
		CreatedBy:  middleware.GetOperator(c),
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// GetStored 已保存的报表
// @Summary      查询已保存的报表
// @Tags         报表-自定义
// @Produce      json
// @Param        reportId path string true "报表ID(UUID)"
// @Success      200 {object} response.Response{data=appreport.StoredReportDTO}
// @Failure      404 {object} response.Response "报表不存在"
// @Router       /api/v1/reports/custom-reports/{reportId} [get]
func (h *ReportHandler) GetStored(c *gin.Context) {
	result, err := h.svc.GetStored(c.Request.Context(), c.Param("reportId"))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Templates 报表模板
// @Summary      报表模板列表
// @Description  内置模板在前，自定义模板在后
// @Tags         报表-自定义
// @Produce      json
// @Success      200 {object} response.Response{data=[]appreport.TemplateDTO}
// @Router       /api/v1/reports/templates [get]
func (h *ReportHandler) Templates(c *gin.Context) {
	result, err := h.svc.Templates(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// SaveTemplate 保存报表模板
// @Summary      保存报表模板
// @Tags         报表-自定义
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TemplateRequest true "模板"
// @Success      200 {object} response.Response{data=appreport.TemplateDTO}
// @Router       /api/v1/reports/templates [post]
func (h *ReportHandler) SaveTemplate(c *gin.Context) {
	var req dto.TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SaveTemplate(c.Request.Context(), appreport.TemplateRequest{
		Code:               req.Code,
		Name:               req.Name,
		Description:        req.Description,
		ReportType:         req.ReportType,
		Parameters:         req.Parameters,
		VisualizationTypes: req.VisualizationTypes,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// DrillDown 按维度下钻
// @Summary      报表下钻
// @Description  日期省略时取最近30天
// @Tags         报表-自定义
// @Produce      json
// @Param        reportType         query string true  "报表类型"
// @Param        drillDownDimension query string true  "维度" Enums(tech_category, customer_segment, time_period, book_level)
// @Param        startDate          query string false "开始日期"
// @Param        endDate            query string false "结束日期"
// @Param        category           query string false "分类编码"
// @Success      200 {object} response.Response{data=report.DrillDownResult}
// @Router       /api/v1/reports/drill-down [post]
func (h *ReportHandler) DrillDown(c *gin.Context) {
	var q dto.DrillDownQuery
	if !bindQuery(c, &q) {
		return
	}
	start, err := dto.ParseDate("startDate", q.StartDate)
	if fail(c, err) {
		return
	}
	end, err := dto.ParseDate("endDate", q.EndDate)
	if fail(c, err) {
		return
	}
	result, err := h.svc.DrillDown(c.Request.Context(), appreport.DrillDownRequest{
		ReportType: q.ReportType,
		Dimension:  q.Dimension,
		StartDate:  start,
		EndDate:    end,
		Category:   q.Category,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Export 导出已保存的报表
// @Summary      导出报表
// @Description  PDF、CSV、JSON；EXCEL暂不支持
// @Tags         报表-导出
// @Produce      application/pdf
// @Produce      text/csv
// @Produce      json
// @Param        reportId path  string true  "报表ID(UUID)"
// @Param        format   query string false "导出格式" Enums(PDF, EXCEL, CSV, JSON) default(PDF)
// @Success      200 {file} file
// @Failure      400 {object} response.Response "不支持的导出格式"
// @Failure      404 {object} response.Response "报表不存在"
// @Router       /api/v1/reports/export/{reportId} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var q dto.ExportQuery
	if !bindQuery(c, &q) {
		return
	}
	file, err := h.svc.Export(c.Request.Context(), c.Param("reportId"), q.Format)
	if fail(c, err) {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// RunBatch 周期销售报表批处理
// @Summary      执行报表批处理
// @Description  计算 → 保存 → 刷新缓存 → 发布事件，失败时补偿
// @Tags         报表-批处理
// @Produce      json
// @Security     BearerAuth
// @Param        batchType path string true "批处理类型" Enums(daily, weekly, monthly)
// @Success      200 {object} response.Response{data=appreport.BatchResult}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Router       /api/v1/reports/admin/batch/{batchType} [post]
func (h *ReportHandler) RunBatch(c *gin.Context) {
	result, err := h.svc.RunBatch(c.Request.Context(), c.Param("batchType"), middleware.GetOperator(c))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}
