package inventory

import "context"

// Repository 库存仓储
type Repository interface {
	Create(ctx context.Context, inv *Inventory) error

	FindByBookID(ctx context.Context, bookID uint) (*Inventory, error)

	// FindByBookIDForUpdate 在当前事务中加行锁读取
	FindByBookIDForUpdate(ctx context.Context, bookID uint) (*Inventory, error)

	// LockByBookIDs 按book_id升序加锁读取多行（固定加锁顺序避免死锁）
	// 任一图书无库存记录返回ErrInventoryNotFound
	LockByBookIDs(ctx context.Context, bookIDs []uint) ([]*Inventory, error)

	Save(ctx context.Context, inv *Inventory) error

	List(ctx context.Context, params ListParams) ([]*Inventory, int64, error)

	// ListLowStock 设置了补货点且总库存不高于补货点
	ListLowStock(ctx context.Context) ([]*Inventory, error)

	// ListOutOfStock 总库存为0
	ListOutOfStock(ctx context.Context) ([]*Inventory, error)

	ListAll(ctx context.Context) ([]*Inventory, error)

	AppendMovements(ctx context.Context, movements ...*Movement) error

	ListMovements(ctx context.Context, bookID uint, page, pageSize int) ([]*Movement, int64, error)
}

// ListParams 库存列表条件
type ListParams struct {
	Page     int
	PageSize int
	Status   StockStatus // 为空不过滤
}
