package inventory

import (
	"context"
	"strings"

	"github.com/xiebiao/techbookstore/internal/application/paging"
	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// QueryUseCase 库存查询（列表、单本、预警、缺货、流水）
type QueryUseCase struct {
	inventories inventory.Repository
	books       book.Repository
}

// NewQueryUseCase 创建查询用例
func NewQueryUseCase(inventories inventory.Repository, books book.Repository) *QueryUseCase {
	return &QueryUseCase{inventories: inventories, books: books}
}

// ListRequest 库存列表条件
type ListRequest struct {
	Page     int
	PageSize int
	Status   string // IN_STOCK / LOW_STOCK / OUT_OF_STOCK
}

// ListResponse 库存分页结果
type ListResponse struct {
	List     []*InventoryDTO
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询库存
func (uc *QueryUseCase) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	req.Page, req.PageSize = paging.Normalize(req.Page, req.PageSize)

	status := inventory.StockStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	switch status {
	case "", inventory.StatusInStock, inventory.StatusLowStock, inventory.StatusOutOfStock:
	default:
		return nil, apperrors.ErrInvalidParams.WithMessage("status必须是IN_STOCK、LOW_STOCK或OUT_OF_STOCK")
	}

	rows, total, err := uc.inventories.List(ctx, inventory.ListParams{Page: req.Page, PageSize: req.PageSize, Status: status})
	if err != nil {
		return nil, err
	}
	list, err := withTitles(ctx, uc.books, rows)
	if err != nil {
		return nil, err
	}
	return &ListResponse{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

// Get 单本图书的库存
func (uc *QueryUseCase) Get(ctx context.Context, bookID uint) (*InventoryDTO, error) {
	inv, err := uc.inventories.FindByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	b, err := uc.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return toDTO(inv, b), nil
}

// Alerts 低库存预警
func (uc *QueryUseCase) Alerts(ctx context.Context) ([]*InventoryDTO, error) {
	rows, err := uc.inventories.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return withTitles(ctx, uc.books, rows)
}

// OutOfStock 缺货图书
func (uc *QueryUseCase) OutOfStock(ctx context.Context) ([]*InventoryDTO, error) {
	rows, err := uc.inventories.ListOutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	return withTitles(ctx, uc.books, rows)
}

// MovementsResponse 流水分页结果
type MovementsResponse struct {
	List     []MovementDTO
	Total    int64
	Page     int
	PageSize int
}

// Transactions 库存流水（按时间倒序）
func (uc *QueryUseCase) Transactions(ctx context.Context, bookID uint, page, size int) (*MovementsResponse, error) {
	page, size = paging.Normalize(page, size)
	if _, err := uc.inventories.FindByBookID(ctx, bookID); err != nil {
		return nil, err
	}
	movements, total, err := uc.inventories.ListMovements(ctx, bookID, page, size)
	if err != nil {
		return nil, err
	}
	list := make([]MovementDTO, len(movements))
	for i, m := range movements {
		list[i] = toMovementDTO(m)
	}
	return &MovementsResponse{List: list, Total: total, Page: page, PageSize: size}, nil
}
