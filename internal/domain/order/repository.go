package order

import (
	"context"
	"time"
)

// Repository 订单仓储
type Repository interface {
	// Create 保存订单及明细（同一事务），订单号重复返回ErrOrderNumberConflict
	Create(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByIDForUpdate 在当前事务中对订单行加锁
	FindByIDForUpdate(ctx context.Context, id uint) (*Order, error)

	FindByOrderNumber(ctx context.Context, number string) (*Order, error)

	ListByCustomer(ctx context.Context, customerID uint) ([]*Order, error)

	// Update 更新状态和各状态时间
	Update(ctx context.Context, order *Order) error

	List(ctx context.Context, params ListParams) ([]*Order, int64, error)

	Count(ctx context.Context) (int64, error)

	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// ExistsForBook 是否有订单明细引用该图书
	ExistsForBook(ctx context.Context, bookID uint) (bool, error)
}

// 列表排序字段
const (
	SortByOrderDate   = "orderDate"
	SortByTotalAmount = "totalAmount"
	SortByOrderNumber = "orderNumber"
)

// ListParams 订单列表条件
type ListParams struct {
	Page       int
	PageSize   int
	SortBy     string // orderDate | totalAmount | orderNumber
	SortDesc   bool
	Status     Status
	Type       Type
	CustomerID *uint
	StartDate  *time.Time
	EndDate    *time.Time
	Keyword    string // 订单号或备注
}
