package book

import (
	"context"
	"errors"
	"strings"
)

// Service 图书领域服务：跨仓储的唯一性与引用校验
type Service struct {
	books      Repository
	categories CategoryRepository
}

// NewService 创建领域服务
func NewService(books Repository, categories CategoryRepository) *Service {
	return &Service{books: books, categories: categories}
}

// EnsureISBNAvailable ISBN未被其他图书使用（exceptID为正在编辑的图书）
func (s *Service) EnsureISBNAvailable(ctx context.Context, isbn13 string, exceptID uint) error {
	existing, err := s.books.FindByISBN(ctx, isbn13)
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != exceptID {
		return ErrISBNDuplicate
	}
	return nil
}

// ResolveCategories 校验分类编码都存在，返回完整分类
func (s *Service) ResolveCategories(ctx context.Context, refs []Category) ([]Category, error) {
	resolved := make([]Category, 0, len(refs))
	for _, ref := range refs {
		c, err := s.categories.FindByCode(ctx, ref.Code)
		if err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound.WithMessage("分类不存在: " + ref.Code)
			}
			return nil, err
		}
		resolved = append(resolved, *c)
	}
	return resolved, nil
}

// NewCategory 校验并构造分类
func (s *Service) NewCategory(ctx context.Context, code, name, parentCode string) (*Category, error) {
	c := &Category{
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
		ParentCode: strings.ToUpper(strings.TrimSpace(parentCode)),
	}
	if c.Code == "" || c.Name == "" {
		return nil, ErrInvalidParams.WithMessage("分类编码和名称不能为空")
	}

	if _, err := s.categories.FindByCode(ctx, c.Code); err == nil {
		return nil, ErrCategoryDuplicate
	} else if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	if c.ParentCode != "" {
		if _, err := s.categories.FindByCode(ctx, c.ParentCode); err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound.WithMessage("父分类不存在: " + c.ParentCode)
			}
			return nil, err
		}
	}
	return c, nil
}
