package book

import (
	"context"
)

// Repository 图书仓储
type Repository interface {
	// Create 保存图书及其关联：出版社、作者按名称查找或创建，分类按编码引用（不存在返回ErrCategoryNotFound）
	Create(ctx context.Context, book *Book) error

	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询，不存在的ID被忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	FindByISBN(ctx context.Context, isbn13 string) (*Book, error)

	// Update 更新字段并替换作者、分类关联
	Update(ctx context.Context, book *Book) error

	// Delete 软删除
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// ListParams 图书列表查询条件
type ListParams struct {
	Page         int    // 页码（从1开始）
	PageSize     int    // 每页数量
	Keyword      string // 书名、英文书名、ISBN
	Level        TechLevel
	CategoryCode string
}

// CategoryRepository 分类仓储
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByCode(ctx context.Context, code string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
