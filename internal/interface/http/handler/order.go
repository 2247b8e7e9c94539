package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/techbookstore/internal/application/order"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// OrderHandler 订单
type OrderHandler struct {
	create   *apporder.CreateOrderUseCase
	query    *apporder.QueryUseCase
	workflow *apporder.WorkflowUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	create *apporder.CreateOrderUseCase,
	query *apporder.QueryUseCase,
	workflow *apporder.WorkflowUseCase,
) *OrderHandler {
	return &OrderHandler{create: create, query: query, workflow: workflow}
}

// CreateOrder 下单
// @Summary      创建订单
// @Description  快照图书售价并生成订单号，状态为PENDING；库存在确认时扣减
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      404 {object} response.Response "图书或顾客不存在"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = apporder.CreateOrderItem{BookID: it.BookID, Quantity: it.Quantity}
	}
	result, err := h.create.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		CustomerID:    req.CustomerID,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         items,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// ListOrders 订单列表
// @Summary      订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page       query int    false "页码" default(1)
// @Param        size       query int    false "每页数量" default(10)
// @Param        sortBy     query string false "排序字段" Enums(orderDate, totalAmount, orderNumber)
// @Param        sortDir    query string false "排序方向" Enums(asc, desc)
// @Param        status     query string false "订单状态"
// @Param        type       query string false "订单类型"
// @Param        customerId query int    false "顾客ID"
// @Param        startDate  query string false "下单日期起（yyyy-MM-dd）"
// @Param        endDate    query string false "下单日期止（yyyy-MM-dd，含）"
// @Param        keyword    query string false "订单号或备注"
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.OrderDTO}}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var q dto.ListOrdersQuery
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

	result, err := h.query.List(c.Request.Context(), apporder.ListOrdersRequest{
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortDir:    q.SortDir,
		Status:     q.Status,
		Type:       q.Type,
		CustomerID: q.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Keyword:    q.Keyword,
	})
	if fail(c, err) {
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.query.Get(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// GetByNumber 按订单号查询
// @Summary      按订单号查询
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        orderNumber path string true "订单号" example(ORD-20240401-0001)
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Router       /api/v1/orders/number/{orderNumber} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	result, err := h.query.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// ListByCustomer 顾客的订单
// @Summary      顾客的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        customerId path int true "顾客ID"
// @Success      200 {object} response.Response{data=[]apporder.OrderDTO}
// @Router       /api/v1/orders/customer/{customerId} [get]
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	result, err := h.query.ListByCustomer(c.Request.Context(), customerID)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Confirm 确认订单并扣减门店库存
// @Summary      确认订单
// @Description  锁定全部相关库存行，任一图书库存不足时整单失败且库存不变
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "库存不足或状态非法"
// @Router       /api/v1/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.workflow.Confirm(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Cancel 取消订单
// @Summary      取消订单
// @Description  已确认或拣货中的订单会归还门店库存
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "状态非法"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.workflow.Cancel(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// UpdateStatus 推进订单状态
// @Summary      更新订单状态
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "订单ID"
// @Param        request body dto.UpdateStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.OrderDTO}
// @Failure      400 {object} response.Response "状态流转非法"
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.workflow.UpdateStatus(c.Request.Context(), id, req.Status)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// StatusCounts 各状态的订单数
// @Summary      订单状态统计
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=map[string]int}
// @Router       /api/v1/orders/status-counts [get]
func (h *OrderHandler) StatusCounts(c *gin.Context) {
	result, err := h.query.StatusCounts(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}
