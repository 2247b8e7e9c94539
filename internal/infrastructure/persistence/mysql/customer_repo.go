package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/customer"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓储
// 顾客删除为逻辑删除（Status=DELETED），记录保留供订单与报表引用
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := toCustomerModel(c)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建顾客失败")
	}
	c.ID = model.ID
	c.CreatedAt, c.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询顾客失败")
	}
	return toCustomerEntity(&model), nil
}

func (r *customerRepository) FindActiveByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var model CustomerModel
	err := dbFrom(ctx, r.db).
		Where("email = ? AND status <> ?", email, string(customer.StatusDeleted)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询顾客失败")
	}
	return toCustomerEntity(&model), nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	result := dbFrom(ctx, r.db).Model(&CustomerModel{ID: c.ID}).
		Select("*").Omit("id", "created_at").
		Updates(toCustomerModel(c))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新顾客失败")
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context, p customer.ListParams) ([]*customer.Customer, int64, error) {
	query := dbFrom(ctx, r.db).Model(&CustomerModel{})
	if p.Keyword != "" {
		like := likePattern(p.Keyword)
		query = query.Where("name LIKE ? OR email LIKE ? OR company_name LIKE ?", like, like, like)
	}
	if p.CustomerType != "" {
		query = query.Where("customer_type = ?", string(p.CustomerType))
	}
	switch {
	case p.Status != "":
		query = query.Where("status = ?", string(p.Status))
	case !p.IncludeDeleted:
		query = query.Where("status <> ?", string(customer.StatusDeleted))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询顾客总数失败")
	}

	var models []CustomerModel
	if err := paginate(query.Order("id"), p.Page, p.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询顾客列表失败")
	}

	out := make([]*customer.Customer, len(models))
	for i := range models {
		out[i] = toCustomerEntity(&models[i])
	}
	return out, total, nil
}

func toCustomerModel(c *customer.Customer) *CustomerModel {
	return &CustomerModel{
		ID:           c.ID,
		Name:         c.Name,
		NameKana:     c.NameKana,
		Email:        c.Email,
		Phone:        c.Phone,
		CompanyName:  c.CompanyName,
		Department:   c.Department,
		CustomerType: string(c.CustomerType),
		Status:       string(c.Status),
		TechLevel:    c.TechLevel,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCustomerEntity(m *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:           m.ID,
		Name:         m.Name,
		NameKana:     m.NameKana,
		Email:        m.Email,
		Phone:        m.Phone,
		CompanyName:  m.CompanyName,
		Department:   m.Department,
		CustomerType: customer.Type(m.CustomerType),
		Status:       customer.Status(m.Status),
		TechLevel:    m.TechLevel,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
