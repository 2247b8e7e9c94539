package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/techbookstore/internal/application/inventory"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// InventoryHandler 库存
type InventoryHandler struct {
	query *appinventory.QueryUseCase
	stock *appinventory.StockUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(query *appinventory.QueryUseCase, stock *appinventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{query: query, stock: stock}
}

// List 库存列表
// @Summary      库存列表
// @Tags         库存
// @Produce      json
// @Param        page   query int    false "页码" default(1)
// @Param        size   query int    false "每页数量" default(10)
// @Param        status query string false "库存状态" Enums(IN_STOCK, LOW_STOCK, OUT_OF_STOCK)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appinventory.InventoryDTO}}
// @Router       /api/v1/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var q dto.ListInventoryQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.query.List(c.Request.Context(), appinventory.ListRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Status:   q.Status,
	})
	if fail(c, err) {
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 单本图书的库存
// @Summary      图书库存
// @Tags         库存
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appinventory.InventoryDTO}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/inventory/{bookId} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	result, err := h.query.Get(c.Request.Context(), bookID)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Receive 入库
// @Summary      入库
// @Description  location为STORE时计入门店库存，其他值计入仓库
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReceiveRequest true "入库信息"
// @Success      200 {object} response.Response{data=appinventory.InventoryDTO}
// @Router       /api/v1/inventory/receive [post]
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req dto.ReceiveRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Receive(c.Request.Context(), appinventory.ReceiveRequest{
		BookID:   req.BookID,
		Quantity: req.Quantity,
		Location: req.Location,
		Note:     req.Note,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Sell 门店零售
// @Summary      零售出库
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SellRequest true "出库信息"
// @Success      200 {object} response.Response{data=appinventory.InventoryDTO}
// @Failure      400 {object} response.Response "库存不足"
// @Router       /api/v1/inventory/sell [post]
func (h *InventoryHandler) Sell(c *gin.Context) {
	var req dto.SellRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Sell(c.Request.Context(), appinventory.SellRequest{
		BookID:   req.BookID,
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Adjust 盘点调整
// @Summary      盘点调整
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AdjustRequest true "盘点结果"
// @Success      200 {object} response.Response{data=appinventory.InventoryDTO}
// @Router       /api/v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Adjust(c.Request.Context(), appinventory.AdjustRequest{
		BookID:         req.BookID,
		StoreStock:     req.StoreStock,
		WarehouseStock: req.WarehouseStock,
		Note:           req.Note,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// UpdateSettings 补货参数
// @Summary      修改补货点与库位
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path int                          true "图书ID"
// @Param        request body dto.InventorySettingsRequest true "补货参数"
// @Success      200 {object} response.Response{data=appinventory.InventoryDTO}
// @Router       /api/v1/inventory/{bookId}/settings [put]
func (h *InventoryHandler) UpdateSettings(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var req dto.InventorySettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.stock.UpdateSettings(c.Request.Context(), appinventory.SettingsRequest{
		BookID:          bookID,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		LocationCode:    req.LocationCode,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Alerts 低库存预警
// @Summary      低库存预警
// @Description  设置了补货点且总库存不高于补货点
// @Tags         库存
// @Produce      json
// @Success      200 {object} response.Response{data=[]appinventory.InventoryDTO}
// @Router       /api/v1/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	result, err := h.query.Alerts(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// OutOfStock 缺货
// @Summary      缺货图书
// @Tags         库存
// @Produce      json
// @Success      200 {object} response.Response{data=[]appinventory.InventoryDTO}
// @Router       /api/v1/inventory/out-of-stock [get]
func (h *InventoryHandler) OutOfStock(c *gin.Context) {
	result, err := h.query.OutOfStock(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Transactions 库存流水
// @Summary      库存流水
// @Tags         库存
// @Produce      json
// @Param        bookId path  int true  "图书ID"
// @Param        page   query int false "页码" default(1)
// @Param        size   query int false "每页数量" default(10)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appinventory.MovementDTO}}
// @Router       /api/v1/inventory/{bookId}/transactions [get]
func (h *InventoryHandler) Transactions(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.query.Transactions(c.Request.Context(), bookID, q.Page, q.PageSize)
	if fail(c, err) {
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
