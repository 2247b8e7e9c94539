package customer

import "context"

// Repository 顾客仓储
type Repository interface {
	Create(ctx context.Context, c *Customer) error

	// FindByID 已删除的顾客同样返回
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// FindActiveByEmail 未删除顾客中按邮箱查找
	FindActiveByEmail(ctx context.Context, email string) (*Customer, error)

	Update(ctx context.Context, c *Customer) error

	List(ctx context.Context, params ListParams) ([]*Customer, int64, error)
}

// ListParams 顾客列表条件
type ListParams struct {
	Page           int
	PageSize       int
	Keyword        string // 姓名、邮箱、公司名
	CustomerType   Type
	Status         Status
	IncludeDeleted bool // Status为空时是否包含DELETED
}
