package handler

import (
	"github.com/gin-gonic/gin"

	appoptimization "github.com/xiebiao/techbookstore/internal/application/optimization"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// OptimizationHandler 库存优化
type OptimizationHandler struct {
	svc *appoptimization.Service
}

// NewOptimizationHandler 创建库存优化处理器
func NewOptimizationHandler(svc *appoptimization.Service) *OptimizationHandler {
	return &OptimizationHandler{svc: svc}
}

// OptimalStock 单本图书的最优库存
// @Summary      最优库存
// @Description  按最近90天日均销量计算安全库存、补货点与最优库存
// @Tags         库存优化
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=optimization.Result}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/optimization/optimal-stock/{bookId} [get]
func (h *OptimizationHandler) OptimalStock(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	result, err := h.svc.OptimalStock(c.Request.Context(), bookID)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// SaveSettings 保存库存参数
// @Summary      保存库存参数
// @Tags         库存优化
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.OptimalStockSettingsRequest true "库存参数"
// @Success      200 {object} response.Response{data=optimization.Result}
// @Router       /api/v1/optimization/optimal-stock [post]
func (h *OptimizationHandler) SaveSettings(c *gin.Context) {
	var req dto.OptimalStockSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.SaveSettings(c.Request.Context(), appoptimization.SettingsRequest{
		BookID:           req.BookID,
		LeadTimeDays:     req.LeadTimeDays,
		SafetyStockDays:  req.SafetyStockDays,
		ReviewPeriodDays: req.ReviewPeriodDays,
		CostRatio:        req.CostRatio,
		MinStock:         req.MinStock,
		MaxStock:         req.MaxStock,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// OrderSuggestions 订货建议
// @Summary      订货建议
// @Description  只返回REORDER_NEEDED与UNDERSTOCK的图书
// @Tags         库存优化
// @Accept       json
// @Produce      json
// @Param        request body dto.BookIDsRequest true "图书ID"
// @Success      200 {object} response.Response{data=[]optimization.Result}
// @Router       /api/v1/optimization/order-suggestions [post]
func (h *OptimizationHandler) OrderSuggestions(c *gin.Context) {
	var req dto.BookIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.OrderSuggestions(c.Request.Context(), req.BookIDs)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// ReorderNeeded 全部需要订货的图书
// @Summary      需要订货的图书
// @Tags         库存优化
// @Produce      json
// @Success      200 {object} response.Response{data=[]optimization.Result}
// @Router       /api/v1/optimization/reorder-needed [get]
func (h *OptimizationHandler) ReorderNeeded(c *gin.Context) {
	result, err := h.svc.ReorderNeeded(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// ConstraintAnalysis 订货成本分析
// @Summary      订货成本分析
// @Tags         库存优化
// @Produce      json
// @Success      200 {object} response.Response{data=optimization.ConstraintAnalysis}
// @Router       /api/v1/optimization/constraint-analysis [get]
func (h *OptimizationHandler) ConstraintAnalysis(c *gin.Context) {
	result, err := h.svc.ConstraintAnalysis(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// BulkCalculate 批量计算
// @Summary      批量计算最优库存
// @Tags         库存优化
// @Accept       json
// @Produce      json
// @Param        request body dto.BookIDsRequest true "图书ID（最多500）"
// @Success      200 {object} response.Response{data=[]optimization.Result}
// @Router       /api/v1/optimization/bulk-calculate [post]
func (h *OptimizationHandler) BulkCalculate(c *gin.Context) {
	var req dto.BookIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.BulkCalculate(c.Request.Context(), req.BookIDs)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}
