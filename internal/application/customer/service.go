package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/application/paging"
	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
)

// Service 顾客管理用例
type Service struct {
	customers customer.Repository
	txManager tx.Manager
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService 创建顾客管理用例
func NewService(customers customer.Repository, txManager tx.Manager, logger zerolog.Logger) *Service {
	return &Service{
		customers: customers,
		txManager: txManager,
		logger:    logger.With().Str("usecase", "customer").Logger(),
		now:       time.Now,
	}
}

// SaveRequest 新建/编辑顾客
type SaveRequest struct {
	Name         string
	NameKana     string
	Email        string
	Phone        string
	CompanyName  string
	Department   string
	CustomerType string
	Status       string
	TechLevel    string
	Notes        string
}

func (r SaveRequest) apply(c *customer.Customer) {
	c.Name = r.Name
	c.NameKana = strings.TrimSpace(r.NameKana)
	c.Email = r.Email
	c.Phone = strings.TrimSpace(r.Phone)
	c.CompanyName = strings.TrimSpace(r.CompanyName)
	c.Department = strings.TrimSpace(r.Department)
	c.CustomerType = customer.Type(strings.ToUpper(strings.TrimSpace(r.CustomerType)))
	c.Status = customer.Status(strings.ToUpper(strings.TrimSpace(r.Status)))
	c.TechLevel = strings.ToUpper(strings.TrimSpace(r.TechLevel))
	c.Notes = r.Notes
}

// Create 新建顾客
func (s *Service) Create(ctx context.Context, req SaveRequest) (*CustomerDTO, error) {
	c := &customer.Customer{}
	req.apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, customer.ErrInvalidStatus
	}

	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailAvailable(txCtx, c.Email, 0); err != nil {
			return err
		}
		return s.customers.Create(txCtx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("customer_id", c.ID).Str("type", string(c.CustomerType)).Msg("顾客已创建")
	return toDTO(c), nil
}

// Update 编辑顾客（全量覆盖可编辑字段）
func (s *Service) Update(ctx context.Context, id uint, req SaveRequest) (*CustomerDTO, error) {
	var updated *customer.Customer
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		req.apply(c)
		if err := c.Validate(); err != nil {
			return err
		}
		if err := s.ensureEmailAvailable(txCtx, c.Email, c.ID); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		if err := s.customers.Update(txCtx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(updated), nil
}

// Get 查询顾客；已删除的顾客视为不存在
func (s *Service) Get(ctx context.Context, id uint) (*CustomerDTO, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// Delete 软删除
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := s.find(txCtx, id)
		if err != nil {
			return err
		}
		c.MarkDeleted(s.now())
		return s.customers.Update(txCtx, c)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Uint("customer_id", id).Msg("顾客已删除")
	return nil
}

// ListRequest 列表条件
type ListRequest struct {
	Page           int
	PageSize       int
	Keyword        string
	CustomerType   string
	Status         string
	IncludeDeleted bool
}

// ListResponse 分页结果
type ListResponse struct {
	List     []*CustomerDTO
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询顾客
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	req.Page, req.PageSize = paging.Normalize(req.Page, req.PageSize)

	params := customer.ListParams{
		Page:           req.Page,
		PageSize:       req.PageSize,
		Keyword:        strings.TrimSpace(req.Keyword),
		IncludeDeleted: req.IncludeDeleted,
	}
	if req.CustomerType != "" {
		params.CustomerType = customer.Type(strings.ToUpper(req.CustomerType))
		if !params.CustomerType.IsValid() {
			return nil, customer.ErrInvalidType
		}
	}
	if req.Status != "" {
		params.Status = customer.Status(strings.ToUpper(req.Status))
		if !params.Status.IsValid() {
			return nil, customer.ErrInvalidStatus
		}
	}

	rows, total, err := s.customers.List(ctx, params)
	if err != nil {
		return nil, err
	}
	list := make([]*CustomerDTO, len(rows))
	for i, c := range rows {
		list[i] = toDTO(c)
	}
	return &ListResponse{List: list, Total: total, Page: req.Page, PageSize: req.PageSize}, nil
}

func (s *Service) find(ctx context.Context, id uint) (*customer.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

// ensureEmailAvailable 邮箱在未删除顾客中唯一（exceptID为正在编辑的顾客）
func (s *Service) ensureEmailAvailable(ctx context.Context, email string, exceptID uint) error {
	if email == "" {
		return nil
	}
	existing, err := s.customers.FindActiveByEmail(ctx, email)
	if errors.Is(err, customer.ErrCustomerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != exceptID {
		return customer.ErrEmailDuplicate
	}
	return nil
}
