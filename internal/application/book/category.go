package book

import (
	"context"

	"github.com/xiebiao/techbookstore/internal/domain/book"
)

// CategoryDTO 分类
type CategoryDTO struct {
	ID         uint   `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	ParentCode string `json:"parentCode,omitempty"`
}

// ListCategoriesUseCase 分类列表
type ListCategoriesUseCase struct {
	categories book.CategoryRepository
}

func NewListCategoriesUseCase(categories book.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categories: categories}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryDTO, error) {
	cats, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		out[i] = CategoryDTO{ID: c.ID, Code: c.Code, Name: c.Name, ParentCode: c.ParentCode}
	}
	return out, nil
}

// CreateCategoryUseCase 新建分类
type CreateCategoryUseCase struct {
	categories  book.CategoryRepository
	bookService *book.Service
}

func NewCreateCategoryUseCase(categories book.CategoryRepository, bookService *book.Service) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categories: categories, bookService: bookService}
}

// CreateCategoryRequest 新建分类请求
type CreateCategoryRequest struct {
	Code       string
	Name       string
	ParentCode string
}

func (uc *CreateCategoryUseCase) Execute(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	c, err := uc.bookService.NewCategory(ctx, req.Code, req.Name, req.ParentCode)
	if err != nil {
		return nil, err
	}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return &CategoryDTO{ID: c.ID, Code: c.Code, Name: c.Name, ParentCode: c.ParentCode}, nil
}
