package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// staffRepository 员工仓储的GORM实现
type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, s *staff.Staff) error {
	model := &StaffModel{
		Email:     s.Email,
		Password:  s.Password,
		Name:      s.Name,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建员工失败")
	}
	s.ID = model.ID
	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	return r.first(dbFrom(ctx, r.db).Where("id = ?", id))
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	return r.first(dbFrom(ctx, r.db).Where("email = ?", email))
}

func (r *staffRepository) first(query *gorm.DB) (*staff.Staff, error) {
	var model StaffModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "查询员工失败")
	}
	return &staff.Staff{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Name:      model.Name,
		Role:      staff.Role(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func (r *staffRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&StaffModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计员工失败")
	}
	return n, nil
}
