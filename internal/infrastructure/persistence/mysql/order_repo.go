package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/order"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// orderRepository 订单仓储，订单与明细作为一个聚合保存
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 连同明细一起插入
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrOrderNumberConflict
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt, o.UpdatedAt = model.CreatedAt, model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.first(dbFrom(ctx, r.db).Where("id = ?", id))
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*order.Order, error) {
	return r.first(forUpdate(dbFrom(ctx, r.db)).Where("id = ?", id))
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.first(dbFrom(ctx, r.db).Where("order_number = ?", number))
}

func (r *orderRepository) first(query *gorm.DB) (*order.Order, error) {
	var model OrderModel
	if err := query.Preload("Items").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*order.Order, error) {
	var models []OrderModel
	err := dbFrom(ctx, r.db).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("order_date DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询顾客订单失败")
	}
	return toOrderEntities(models), nil
}

// Update 只更新状态与各状态时间，明细不可变
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	result := dbFrom(ctx, r.db).Model(&OrderModel{ID: o.ID}).
		Select("status", "confirmed_date", "shipped_date", "delivered_date", "cancelled_date", "notes", "updated_at").
		Updates(&OrderModel{
			Status:        string(o.Status),
			ConfirmedDate: o.ConfirmedDate,
			ShippedDate:   o.ShippedDate,
			DeliveredDate: o.DeliveredDate,
			CancelledDate: o.CancelledDate,
			Notes:         o.Notes,
			UpdatedAt:     o.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

var orderSortColumns = map[string]string{
	order.SortByOrderDate:   "order_date",
	order.SortByTotalAmount: "total_amount",
	order.SortByOrderNumber: "order_number",
}

func (r *orderRepository) List(ctx context.Context, p order.ListParams) ([]*order.Order, int64, error) {
	query := dbFrom(ctx, r.db).Model(&OrderModel{})
	if p.Status != "" {
		query = query.Where("status = ?", string(p.Status))
	}
	if p.Type != "" {
		query = query.Where("type = ?", string(p.Type))
	}
	if p.CustomerID != nil {
		query = query.Where("customer_id = ?", *p.CustomerID)
	}
	if p.StartDate != nil {
		query = query.Where("order_date >= ?", *p.StartDate)
	}
	if p.EndDate != nil {
		query = query.Where("order_date < ?", *p.EndDate)
	}
	if p.Keyword != "" {
		like := likePattern(p.Keyword)
		query = query.Where("order_number LIKE ? OR notes LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	column, ok := orderSortColumns[p.SortBy]
	if !ok {
		column = "order_date"
	}
	dir := " ASC"
	if p.SortDesc {
		dir = " DESC"
	}

	var models []OrderModel
	err := paginate(query.Preload("Items").Order(column+dir).Order("id"+dir), p.Page, p.PageSize).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}
	return toOrderEntities(models), total, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&OrderModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计订单失败")
	}
	return n, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "按状态统计订单失败")
	}

	counts := make(map[order.Status]int64, len(order.Statuses))
	for _, s := range order.Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[order.Status(row.Status)] = row.N
	}
	return counts, nil
}

func (r *orderRepository) ExistsForBook(ctx context.Context, bookID uint) (bool, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&OrderItemModel{}).Where("book_id = ?", bookID).Limit(1).Count(&n).Error; err != nil {
		return false, apperrors.Wrap(err, "查询订单明细失败")
	}
	return n > 0, nil
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemModel{
			BookID:     it.BookID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}
	return &OrderModel{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Type:          string(o.Type),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		OrderDate:     o.OrderDate,
		ConfirmedDate: o.ConfirmedDate,
		ShippedDate:   o.ShippedDate,
		DeliveredDate: o.DeliveredDate,
		CancelledDate: o.CancelledDate,
		Notes:         o.Notes,
		TotalAmount:   o.TotalAmount,
		Items:         items,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.Item, len(m.Items))
	for i, it := range m.Items {
		items[i] = order.Item{
			ID:         it.ID,
			OrderID:    it.OrderID,
			BookID:     it.BookID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}
	return &order.Order{
		ID:            m.ID,
		OrderNumber:   m.OrderNumber,
		CustomerID:    m.CustomerID,
		Type:          order.Type(m.Type),
		PaymentMethod: order.PaymentMethod(m.PaymentMethod),
		Status:        order.Status(m.Status),
		OrderDate:     m.OrderDate,
		ConfirmedDate: m.ConfirmedDate,
		ShippedDate:   m.ShippedDate,
		DeliveredDate: m.DeliveredDate,
		CancelledDate: m.CancelledDate,
		Notes:         m.Notes,
		Items:         items,
		TotalAmount:   m.TotalAmount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toOrderEntities(models []OrderModel) []*order.Order {
	out := make([]*order.Order, len(models))
	for i := range models {
		out[i] = toOrderEntity(&models[i])
	}
	return out
}
