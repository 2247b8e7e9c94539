package mysql

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

const (
	totalStockExpr = "(store_stock + warehouse_stock)"
	lowStockCond   = "reorder_point IS NOT NULL AND " + totalStockExpr + " <= reorder_point"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	model := toInventoryModel(inv)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "该图书已有库存记录")
		}
		return apperrors.Wrap(err, "创建库存记录失败")
	}
	inv.ID = model.ID
	return nil
}

func (r *inventoryRepository) FindByBookID(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.first(dbFrom(ctx, r.db), bookID)
}

func (r *inventoryRepository) FindByBookIDForUpdate(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return r.first(forUpdate(dbFrom(ctx, r.db)), bookID)
}

func (r *inventoryRepository) first(query *gorm.DB, bookID uint) (*inventory.Inventory, error) {
	var model InventoryModel
	if err := query.Where("book_id = ?", bookID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrInventoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return toInventoryEntity(&model), nil
}

// LockByBookIDs 一条SELECT ... ORDER BY book_id FOR UPDATE，行锁按book_id升序获取
func (r *inventoryRepository) LockByBookIDs(ctx context.Context, bookIDs []uint) ([]*inventory.Inventory, error) {
	ids := uniqueSorted(bookIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var models []InventoryModel
	err := forUpdate(dbFrom(ctx, r.db)).
		Where("book_id IN ?", ids).
		Order("book_id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "锁定库存失败")
	}
	if len(models) != len(ids) {
		found := make(map[uint]bool, len(models))
		for _, m := range models {
			found[m.BookID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, inventory.ErrInventoryNotFound.WithMessage("图书没有库存记录")
			}
		}
	}
	return toInventoryEntities(models), nil
}

func (r *inventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	if inv.ID == 0 {
		return r.Create(ctx, inv)
	}
	if err := dbFrom(ctx, r.db).Save(toInventoryModel(inv)).Error; err != nil {
		return apperrors.Wrap(err, "保存库存失败")
	}
	return nil
}

func (r *inventoryRepository) List(ctx context.Context, p inventory.ListParams) ([]*inventory.Inventory, int64, error) {
	query := dbFrom(ctx, r.db).Model(&InventoryModel{})
	switch p.Status {
	case inventory.StatusOutOfStock:
		query = query.Where(totalStockExpr + " = 0")
	case inventory.StatusLowStock:
		query = query.Where(totalStockExpr + " <> 0").Where(lowStockCond)
	case inventory.StatusInStock:
		query = query.Where(totalStockExpr+" <> 0").
			Where("reorder_point IS NULL OR " + totalStockExpr + " > reorder_point")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存总数失败")
	}

	var models []InventoryModel
	if err := paginate(query.Order("book_id"), p.Page, p.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存列表失败")
	}
	return toInventoryEntities(models), total, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]*inventory.Inventory, error) {
	return r.find(ctx, lowStockCond)
}

func (r *inventoryRepository) ListOutOfStock(ctx context.Context) ([]*inventory.Inventory, error) {
	return r.find(ctx, totalStockExpr+" = 0")
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]*inventory.Inventory, error) {
	return r.find(ctx, "")
}

func (r *inventoryRepository) find(ctx context.Context, cond string) ([]*inventory.Inventory, error) {
	query := dbFrom(ctx, r.db).Order("book_id")
	if cond != "" {
		query = query.Where(cond)
	}
	var models []InventoryModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询库存失败")
	}
	return toInventoryEntities(models), nil
}

func (r *inventoryRepository) AppendMovements(ctx context.Context, movements ...*inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	models := make([]InventoryTransactionModel, len(movements))
	for i, m := range movements {
		models[i] = InventoryTransactionModel{
			BookID:          m.BookID,
			Type:            string(m.Type),
			Quantity:        m.Quantity,
			StoreBefore:     m.StoreBefore,
			StoreAfter:      m.StoreAfter,
			WarehouseBefore: m.WarehouseBefore,
			WarehouseAfter:  m.WarehouseAfter,
			OrderID:         m.OrderID,
			Note:            m.Note,
			CreatedAt:       m.CreatedAt,
		}
	}
	if err := dbFrom(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "记录库存流水失败")
	}
	for i := range movements {
		movements[i].ID = models[i].ID
	}
	return nil
}

// ListMovements 按时间倒序
func (r *inventoryRepository) ListMovements(ctx context.Context, bookID uint, page, pageSize int) ([]*inventory.Movement, int64, error) {
	query := dbFrom(ctx, r.db).Model(&InventoryTransactionModel{}).Where("book_id = ?", bookID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}

	var models []InventoryTransactionModel
	if err := paginate(query.Order("created_at DESC, id DESC"), page, pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}

	out := make([]*inventory.Movement, len(models))
	for i, m := range models {
		out[i] = &inventory.Movement{
			ID:              m.ID,
			BookID:          m.BookID,
			Type:            inventory.MovementType(m.Type),
			Quantity:        m.Quantity,
			StoreBefore:     m.StoreBefore,
			StoreAfter:      m.StoreAfter,
			WarehouseBefore: m.WarehouseBefore,
			WarehouseAfter:  m.WarehouseAfter,
			OrderID:         m.OrderID,
			Note:            m.Note,
			CreatedAt:       m.CreatedAt,
		}
	}
	return out, total, nil
}

func uniqueSorted(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toInventoryModel(inv *inventory.Inventory) *InventoryModel {
	return &InventoryModel{
		ID:               inv.ID,
		BookID:           inv.BookID,
		StoreStock:       inv.StoreStock,
		WarehouseStock:   inv.WarehouseStock,
		ReservedCount:    inv.ReservedCount,
		LocationCode:     inv.LocationCode,
		ReorderPoint:     inv.ReorderPoint,
		ReorderQuantity:  inv.ReorderQuantity,
		LastReceivedDate: inv.LastReceivedDate,
		LastSoldDate:     inv.LastSoldDate,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

func toInventoryEntity(m *InventoryModel) *inventory.Inventory {
	return &inventory.Inventory{
		ID:               m.ID,
		BookID:           m.BookID,
		StoreStock:       m.StoreStock,
		WarehouseStock:   m.WarehouseStock,
		ReservedCount:    m.ReservedCount,
		LocationCode:     m.LocationCode,
		ReorderPoint:     m.ReorderPoint,
		ReorderQuantity:  m.ReorderQuantity,
		LastReceivedDate: m.LastReceivedDate,
		LastSoldDate:     m.LastSoldDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toInventoryEntities(models []InventoryModel) []*inventory.Inventory {
	out := make([]*inventory.Inventory, len(models))
	for i := range models {
		out[i] = toInventoryEntity(&models[i])
	}
	return out
}
