package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/techbookstore/internal/application/book"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// BookHandler 图书与技术分类
type BookHandler struct {
	createBook     *appbook.CreateBookUseCase
	listBooks      *appbook.ListBooksUseCase
	getBook        *appbook.GetBookUseCase
	updateBook     *appbook.UpdateBookUseCase
	deleteBook     *appbook.DeleteBookUseCase
	listCategories *appbook.ListCategoriesUseCase
	createCategory *appbook.CreateCategoryUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	listCategories *appbook.ListCategoriesUseCase,
	createCategory *appbook.CreateCategoryUseCase,
) *BookHandler {
	return &BookHandler{
		createBook:     createBook,
		listBooks:      listBooks,
		getBook:        getBook,
		updateBook:     updateBook,
		deleteBook:     deleteBook,
		listCategories: listCategories,
		createCategory: createCategory,
	}
}

// CreateBook 图书上架
// @Summary      图书上架
// @Description  创建图书及其库存记录（同一事务）
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误或ISBN已存在"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	published, err := dto.ParseDate("publicationDate", req.PublicationDate)
	if fail(c, err) {
		return
	}

	result, err := h.createBook.Execute(c.Request.Context(), appbook.CreateBookRequest{
		ISBN13:          req.ISBN13,
		Title:           req.Title,
		TitleEn:         req.TitleEn,
		Publisher:       req.Publisher,
		PublicationDate: published,
		Edition:         req.Edition,
		ListPrice:       req.ListPrice,
		SellingPrice:    req.SellingPrice,
		Pages:           req.Pages,
		Level:           req.Level,
		VersionInfo:     req.VersionInfo,
		SampleCodeURL:   req.SampleCodeURL,
		Authors:         req.Authors,
		Categories:      req.Categories,
		StoreStock:      req.StoreStock,
		WarehouseStock:  req.WarehouseStock,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		LocationCode:    req.LocationCode,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Param        page     query int    false "页码" default(1)
// @Param        size     query int    false "每页数量" default(10)
// @Param        keyword  query string false "书名/英文书名/ISBN"
// @Param        level    query string false "难度" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param        category query string false "分类编码"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookDTO}}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  q.Keyword,
		Level:    q.Level,
		Category: q.Category,
	})
	if fail(c, err) {
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetBook 图书详情
// @Summary      图书详情（含库存概要）
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.getBook.Execute(c.Request.Context(), id)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// UpdateBook 编辑图书
// @Summary      编辑图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      403 {object} response.Response "需要管理员权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	update := appbook.UpdateBookRequest{
		ID:            id,
		Title:         req.Title,
		TitleEn:       req.TitleEn,
		Publisher:     req.Publisher,
		Edition:       req.Edition,
		ListPrice:     req.ListPrice,
		SellingPrice:  req.SellingPrice,
		Pages:         req.Pages,
		Level:         req.Level,
		VersionInfo:   req.VersionInfo,
		SampleCodeURL: req.SampleCodeURL,
		Authors:       req.Authors,
		Categories:    req.Categories,
	}
	if req.PublicationDate != nil {
		t, err := dto.RequireDate("publicationDate", *req.PublicationDate)
		if fail(c, err) {
			return
		}
		update.PublicationDate = &t
	}

	result, err := h.updateBook.Execute(c.Request.Context(), update)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书（软删除；已被订单引用时拒绝）
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "图书已被订单引用"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if fail(c, h.deleteBook.Execute(c.Request.Context(), id)) {
		return
	}
	response.Success(c, gin.H{"id": id})
}

// ListCategories 技术分类列表
// @Summary      技术分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.CategoryDTO}
// @Router       /api/v1/categories [get]
func (h *BookHandler) ListCategories(c *gin.Context) {
	result, err := h.listCategories.Execute(c.Request.Context())
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// CreateCategory 新建技术分类
// @Summary      新建技术分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类"
// @Success      200 {object} response.Response{data=appbook.CategoryDTO}
// @Failure      400 {object} response.Response "编码重复或上级分类不存在"
// @Router       /api/v1/categories [post]
func (h *BookHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.createCategory.Execute(c.Request.Context(), appbook.CreateCategoryRequest{
		Code:       req.Code,
		Name:       req.Name,
		ParentCode: req.ParentCode,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}
