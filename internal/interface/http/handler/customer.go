package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/xiebiao/techbookstore/internal/application/customer"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// CustomerHandler 顾客
type CustomerHandler struct {
	customers *appcustomer.Service
}

// NewCustomerHandler 创建顾客处理器
func NewCustomerHandler(customers *appcustomer.Service) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func toSaveRequest(req dto.SaveCustomerRequest) appcustomer.SaveRequest {
	return appcustomer.SaveRequest{
		Name:         req.Name,
		NameKana:     req.NameKana,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		Department:   req.Department,
		CustomerType: req.CustomerType,
		Status:       req.Status,
		TechLevel:    req.TechLevel,
		Notes:        req.Notes,
	}
}

// Create 新建顾客
// @Summary      新建顾客
// @Tags         顾客
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SaveCustomerRequest true "顾客信息"
// @Success      200 {object} response.Response{data=appcustomer.CustomerDTO}
// @Failure      400 {object} response.Response "邮箱已被使用"
// @Router       /api/v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.SaveCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.customers.Create(c.Request.Context(), toSaveRequest(req))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// List 顾客列表
// @Summary      顾客列表
// @Tags         顾客
// @Produce      json
// @Security     BearerAuth
// @Param        page           query int    false "页码" default(1)
// @Param        size           query int    false "每页数量" default(10)
// @Param        keyword        query string false "姓名/邮箱/公司名"
// @Param        customerType   query string false "顾客类型" Enums(INDIVIDUAL, CORPORATE, STUDENT)
// @Param        status         query string false "状态" Enums(ACTIVE, INACTIVE, DELETED)
// @Param        includeDeleted query bool   false "包含已删除"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appcustomer.CustomerDTO}}
// @Router       /api/v1/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var q dto.ListCustomersQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.customers.List(c.Request.Context(), appcustomer.ListRequest{
		Page:           q.Page,
		PageSize:       q.PageSize,
		Keyword:        q.Keyword,
		CustomerType:   q.CustomerType,
		Status:         q.Status,
		IncludeDeleted: q.IncludeDeleted,
	})
	if fail(c, err) {
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 顾客详情
// @Summary      顾客详情
// @Tags         顾客
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "顾客ID"
// @Success      200 {object} response.Response{data=appcustomer.CustomerDTO}
// @Failure      404 {object} response.Response "顾客不存在"
// @Router       /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.customers.Get(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Update 编辑顾客
// @Summary      编辑顾客
// @Tags         顾客
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "顾客ID"
// @Param        request body dto.SaveCustomerRequest true "顾客信息"
// @Success      200 {object} response.Response{data=appcustomer.CustomerDTO}
// @Router       /api/v1/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SaveCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.customers.Update(c.Request.Context(), id, toSaveRequest(req))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Delete 删除顾客（状态置为DELETED）
// @Summary      删除顾客
// @Tags         顾客
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "顾客ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if fail(c, h.customers.Delete(c.Request.Context(), id)) {
		return
	}
	response.Success(c, gin.H{"id": id})
}
