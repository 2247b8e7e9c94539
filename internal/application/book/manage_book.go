package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
)

// GetBookUseCase 图书详情（附库存概况）
type GetBookUseCase struct {
	books       book.Repository
	inventories inventory.Repository
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(books book.Repository, inventories inventory.Repository) *GetBookUseCase {
	return &GetBookUseCase{books: books, inventories: inventories}
}

// Execute 查询图书
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv, err := uc.inventories.FindByBookID(ctx, id)
	if err != nil && !errors.Is(err, inventory.ErrInventoryNotFound) {
		return nil, err
	}
	return toDTO(b, inv), nil
}

// UpdateBookUseCase 管理员编辑图书
type UpdateBookUseCase struct {
	books       book.Repository
	bookService *book.Service
	txManager   tx.Manager
	logger      zerolog.Logger
}

// NewUpdateBookUseCase 创建编辑用例
func NewUpdateBookUseCase(books book.Repository, bookService *book.Service, txManager tx.Manager, logger zerolog.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		books:       books,
		bookService: bookService,
		txManager:   txManager,
		logger:      logger.With().Str("usecase", "update_book").Logger(),
	}
}

// UpdateBookRequest 编辑请求：nil字段保持不变
type UpdateBookRequest struct {
	ID              uint
	Title           *string
	TitleEn         *string
	Publisher       *string
	PublicationDate *time.Time
	Edition         *int
	ListPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	Pages           *int
	Level           *string
	VersionInfo     *string
	SampleCodeURL   *string
	Authors         []string
	Categories      []string
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookDTO, error) {
	u := book.Update{
		Title:           req.Title,
		TitleEn:         req.TitleEn,
		PublisherName:   req.Publisher,
		PublicationDate: req.PublicationDate,
		Edition:         req.Edition,
		ListPrice:       req.ListPrice,
		SellingPrice:    req.SellingPrice,
		Pages:           req.Pages,
		VersionInfo:     req.VersionInfo,
		SampleCodeURL:   req.SampleCodeURL,
		AuthorNames:     req.Authors,
		CategoryCodes:   req.Categories,
	}
	if req.Level != nil {
		level := book.TechLevel(strings.ToUpper(*req.Level))
		u.Level = &level
	}

	var updated *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.books.FindByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := b.Apply(u); err != nil {
			return err
		}
		if req.Categories != nil {
			if b.Categories, err = uc.bookService.ResolveCategories(txCtx, b.Categories); err != nil {
				return err
			}
		}
		if err := uc.books.Update(txCtx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Uint("book_id", updated.ID).Msg("图书已更新")
	return toDTO(updated, nil), nil
}

// DeleteBookUseCase 软删除图书；已有订单引用时拒绝
type DeleteBookUseCase struct {
	books  book.Repository
	orders order.Repository
	logger zerolog.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(books book.Repository, orders order.Repository, logger zerolog.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		books:  books,
		orders: orders,
		logger: logger.With().Str("usecase", "delete_book").Logger(),
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if _, err := uc.books.FindByID(ctx, id); err != nil {
		return err
	}
	inUse, err := uc.orders.ExistsForBook(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return book.ErrBookInUse
	}
	if err := uc.books.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info().Uint("book_id", id).Msg("图书已删除")
	return nil
}
