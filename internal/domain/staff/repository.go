package staff

import (
	"context"
)

// Repository 员工仓储
type Repository interface {
	// Create 邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, staff *Staff) error

	FindByID(ctx context.Context, id uint) (*Staff, error)

	FindByEmail(ctx context.Context, email string) (*Staff, error)

	Count(ctx context.Context) (int64, error)
}
