package order

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/techbookstore/internal/application/paging"
	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// QueryUseCase 订单查询
type QueryUseCase struct {
	orders    order.Repository
	books     book.Repository
	customers customer.Repository
}

// NewQueryUseCase 创建订单查询用例
func NewQueryUseCase(orders order.Repository, books book.Repository, customers customer.Repository) *QueryUseCase {
	return &QueryUseCase{orders: orders, books: books, customers: customers}
}

// ListOrdersRequest 订单列表条件
type ListOrdersRequest struct {
	Page       int
	PageSize   int
	SortBy     string // orderDate | totalAmount | orderNumber
	SortDir    string // asc | desc（默认desc）
	Status     string
	Type       string
	CustomerID *uint
	StartDate  *time.Time // 下单日期（含）
	EndDate    *time.Time // 下单日期（含）
	Keyword    string
}

// ListOrdersResponse 分页结果
type ListOrdersResponse struct {
	List     []*OrderDTO
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询订单
func (uc *QueryUseCase) List(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	req.Page, req.PageSize = paging.Normalize(req.Page, req.PageSize)

	params := order.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortDesc:   !strings.EqualFold(req.SortDir, "asc"),
		CustomerID: req.CustomerID,
		StartDate:  req.StartDate,
		Keyword:    strings.TrimSpace(req.Keyword),
	}
	switch params.SortBy {
	case "":
		params.SortBy = order.SortByOrderDate
	case order.SortByOrderDate, order.SortByTotalAmount, order.SortByOrderNumber:
	default:
		return nil, apperrors.ErrInvalidParams.WithMessage("sortBy必须是orderDate、totalAmount或orderNumber")
	}
	if req.Status != "" {
		params.Status = order.Status(strings.ToUpper(req.Status))
		if !params.Status.IsValid() {
			return nil, order.ErrInvalidStatus
		}
	}
	if req.Type != "" {
		params.Type = order.Type(strings.ToUpper(req.Type))
		if !params.Type.IsValid() {
			return nil, order.ErrInvalidOrderType
		}
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, apperrors.ErrInvalidDateRange.WithMessage("开始日期不能晚于结束日期")
	}
	if req.EndDate != nil {
		end := req.EndDate.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	orders, total, err := uc.orders.List(ctx, params)
	if err != nil {
		return nil, err
	}
	list := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toDTO(o, nil)
	}
	return &ListOrdersResponse{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// Get 按ID查询（明细附书名）
func (uc *QueryUseCase) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	o, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.withTitles(ctx, o)
}

// GetByNumber 按订单号查询
func (uc *QueryUseCase) GetByNumber(ctx context.Context, number string) (*OrderDTO, error) {
	o, err := uc.orders.FindByOrderNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	return uc.withTitles(ctx, o)
}

// ListByCustomer 顾客的全部订单
func (uc *QueryUseCase) ListByCustomer(ctx context.Context, customerID uint) ([]*OrderDTO, error) {
	if _, err := uc.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	orders, err := uc.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	list := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toDTO(o, nil)
	}
	return list, nil
}

// StatusCounts 各状态订单数（六种状态都返回）
func (uc *QueryUseCase) StatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := uc.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(order.Statuses))
	for _, s := range order.Statuses {
		out[string(s)] = counts[s]
	}
	return out, nil
}

func (uc *QueryUseCase) withTitles(ctx context.Context, o *order.Order) (*OrderDTO, error) {
	books, err := uc.books.FindByIDs(ctx, o.BookIDs())
	if err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(books))
	for _, b := range books {
		titles[b.ID] = b.Title
	}
	return toDTO(o, titles), nil
}
