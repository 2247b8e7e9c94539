package book

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
)

// CreateBookUseCase 新书上架：图书与库存行在同一事务中创建
type CreateBookUseCase struct {
	books       book.Repository
	inventories inventory.Repository
	bookService *book.Service
	txManager   tx.Manager
	logger      zerolog.Logger
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(
	books book.Repository,
	inventories inventory.Repository,
	bookService *book.Service,
	txManager tx.Manager,
	logger zerolog.Logger,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		books:       books,
		inventories: inventories,
		bookService: bookService,
		txManager:   txManager,
		logger:      logger.With().Str("usecase", "create_book").Logger(),
	}
}

// CreateBookRequest 上架请求
type CreateBookRequest struct {
	ISBN13          string
	Title           string
	TitleEn         string
	Publisher       string
	PublicationDate *time.Time
	Edition         int
	ListPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	Pages           int
	Level           string
	VersionInfo     string
	SampleCodeURL   string
	Authors         []string
	Categories      []string

	// 初始库存
	StoreStock      int
	WarehouseStock  int
	ReorderPoint    *int
	ReorderQuantity int
	LocationCode    string
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookDTO, error) {
	b := &book.Book{
		ISBN13:          req.ISBN13,
		Title:           strings.TrimSpace(req.Title),
		TitleEn:         strings.TrimSpace(req.TitleEn),
		PublicationDate: req.PublicationDate,
		Edition:         req.Edition,
		ListPrice:       req.ListPrice,
		SellingPrice:    req.SellingPrice,
		Pages:           req.Pages,
		Level:           book.TechLevel(strings.ToUpper(req.Level)),
		VersionInfo:     req.VersionInfo,
		SampleCodeURL:   req.SampleCodeURL,
		Authors:         book.AuthorsFromNames(req.Authors),
		Categories:      book.CategoriesFromCodes(req.Categories),
	}
	if name := strings.TrimSpace(req.Publisher); name != "" {
		b.Publisher = &book.Publisher{Name: name}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var inv *inventory.Inventory
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookService.EnsureISBNAvailable(txCtx, b.ISBN13, 0); err != nil {
			return err
		}
		categories, err := uc.bookService.ResolveCategories(txCtx, b.Categories)
		if err != nil {
			return err
		}
		b.Categories = categories

		if err := uc.books.Create(txCtx, b); err != nil {
			return err
		}

		inv, err = inventory.New(b.ID, req.StoreStock, req.WarehouseStock, req.ReorderPoint, req.ReorderQuantity, req.LocationCode)
		if err != nil {
			return err
		}
		return uc.inventories.Create(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Uint("book_id", b.ID).
		Str("isbn13", b.ISBN13).
		Int("store_stock", inv.StoreStock).
		Int("warehouse_stock", inv.WarehouseStock).
		Msg("图书上架")

	return toDTO(b, inv), nil
}
