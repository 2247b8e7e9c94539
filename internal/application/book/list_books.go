package book

import (
	"context"
	"strings"

	"github.com/xiebiao/techbookstore/internal/application/paging"
	"github.com/xiebiao/techbookstore/internal/domain/book"
)

// ListBooksUseCase 图书列表
type ListBooksUseCase struct {
	books book.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(books book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{books: books}
}

// ListBooksRequest 列表查询条件
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 书名、英文书名、ISBN
	Level    string
	Category string
}

// ListBooksResponse 分页结果
type ListBooksResponse struct {
	List     []*BookDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	req.Page, req.PageSize = paging.Normalize(req.Page, req.PageSize)

	level := book.TechLevel(strings.ToUpper(strings.TrimSpace(req.Level)))
	if level != "" && !level.IsValid() {
		return nil, book.ErrInvalidLevel
	}

	books, total, err := uc.books.List(ctx, book.ListParams{
		Page:         req.Page,
		PageSize:     req.PageSize,
		Keyword:      strings.TrimSpace(req.Keyword),
		Level:        level,
		CategoryCode: strings.ToUpper(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		return nil, err
	}

	list := make([]*BookDTO, len(books))
	for i, b := range books {
		list[i] = toDTO(b, nil)
	}
	return &ListBooksResponse{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}
