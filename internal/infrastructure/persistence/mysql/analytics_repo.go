package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/domain/report"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// AnalyticsRepository 报表与库存优化的只读查询
// 同时实现report.AnalyticsRepository与optimization的SalesReader
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ report.AnalyticsRepository = (*AnalyticsRepository)(nil)

// primaryCategoryJoin 主分类（position=0）
const primaryCategoryJoin = "LEFT JOIN book_categories bc ON bc.book_id = b.id AND bc.position = 0 " +
	"LEFT JOIN tech_categories tc ON tc.id = bc.category_id"

type saleLineRow struct {
	OrderID      uint
	OrderDate    time.Time
	OrderType    string
	CustomerID   *uint
	CustomerType *string
	BookID       uint
	Title        string
	Category     *string
	Level        string
	Quantity     int
	Revenue      decimal.Decimal
}

func (r *AnalyticsRepository) SalesLines(ctx context.Context, from, to time.Time) ([]report.SaleLine, error) {
	var rows []saleLineRow
	err := dbFrom(ctx, r.db).Table("order_items oi").
		Select("o.id AS order_id, o.order_date, o.type AS order_type, o.customer_id, c.customer_type, "+
			"b.id AS book_id, b.title, tc.code AS category, b.level, oi.quantity, oi.total_price AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN books b ON b.id = oi.book_id").
		Joins("LEFT JOIN customers c ON c.id = o.customer_id").
		Joins(primaryCategoryJoin).
		Where("o.status <> ? AND o.order_date >= ? AND o.order_date < ?", string(order.StatusCancelled), from, to).
		Order("o.order_date, oi.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询销售明细失败")
	}

	lines := make([]report.SaleLine, len(rows))
	for i, row := range rows {
		lines[i] = report.SaleLine{
			OrderID:      row.OrderID,
			OrderDate:    row.OrderDate,
			OrderType:    row.OrderType,
			CustomerID:   row.CustomerID,
			CustomerType: deref(row.CustomerType),
			BookID:       row.BookID,
			Title:        row.Title,
			Category:     categoryOrDefault(row.Category),
			Level:        row.Level,
			Quantity:     row.Quantity,
			Revenue:      row.Revenue,
		}
	}
	return lines, nil
}

// CustomerStats 订单按顾客在内存中汇总，各数据库对聚合时间列的扫描行为不一致
func (r *AnalyticsRepository) CustomerStats(ctx context.Context) ([]report.CustomerStat, error) {
	var customers []CustomerModel
	if err := dbFrom(ctx, r.db).Order("id").Find(&customers).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询顾客失败")
	}

	var orders []struct {
		CustomerID  uint
		OrderDate   time.Time
		TotalAmount decimal.Decimal
	}
	err := dbFrom(ctx, r.db).Model(&OrderModel{}).
		Select("customer_id, order_date, total_amount").
		Where("customer_id IS NOT NULL AND status <> ?", string(order.StatusCancelled)).
		Scan(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询顾客订单失败")
	}

	stats := make([]report.CustomerStat, len(customers))
	index := make(map[uint]int, len(customers))
	for i, c := range customers {
		index[c.ID] = i
		stats[i] = report.CustomerStat{
			CustomerID:   c.ID,
			Name:         c.Name,
			CustomerType: c.CustomerType,
			Status:       c.Status,
			CreatedAt:    c.CreatedAt,
			Revenue:      decimal.Zero,
		}
	}
	for _, o := range orders {
		i, ok := index[o.CustomerID]
		if !ok {
			continue
		}
		s := &stats[i]
		s.OrderCount++
		s.Revenue = s.Revenue.Add(o.TotalAmount)
		if s.LastOrderDate == nil || o.OrderDate.After(*s.LastOrderDate) {
			d := o.OrderDate
			s.LastOrderDate = &d
		}
	}
	return stats, nil
}

type stockRowScan struct {
	BookID          uint
	Title           string
	Category        *string
	ListPrice       decimal.Decimal
	StoreStock      int
	WarehouseStock  int
	ReservedCount   int
	ReorderPoint    *int
	ReorderQuantity int
}

// StockRows 未删除且有库存记录的图书
func (r *AnalyticsRepository) StockRows(ctx context.Context) ([]report.StockRow, error) {
	var rows []stockRowScan
	err := dbFrom(ctx, r.db).Table("inventories i").
		Select("b.id AS book_id, b.title, tc.code AS category, b.list_price, i.store_stock, i.warehouse_stock, " +
			"i.reserved_count, i.reorder_point, i.reorder_quantity").
		Joins("JOIN books b ON b.id = i.book_id AND b.deleted_at IS NULL").
		Joins(primaryCategoryJoin).
		Order("b.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存快照失败")
	}

	out := make([]report.StockRow, len(rows))
	for i, row := range rows {
		out[i] = report.StockRow{
			BookID:          row.BookID,
			Title:           row.Title,
			Category:        categoryOrDefault(row.Category),
			ListPrice:       row.ListPrice,
			StoreStock:      row.StoreStock,
			WarehouseStock:  row.WarehouseStock,
			ReservedCount:   row.ReservedCount,
			ReorderPoint:    row.ReorderPoint,
			ReorderQuantity: row.ReorderQuantity,
		}
	}
	return out, nil
}

type bookSum struct {
	BookID uint
	Total  int
}

func (r *AnalyticsRepository) UnitsSold(ctx context.Context, from, to time.Time) (map[uint]int, error) {
	var rows []bookSum
	err := dbFrom(ctx, r.db).Table("order_items oi").
		Select("oi.book_id, SUM(oi.quantity) AS total").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status <> ? AND o.order_date >= ? AND o.order_date < ?", string(order.StatusCancelled), from, to).
		Group("oi.book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计销量失败")
	}
	return sumsToMap(rows), nil
}

func (r *AnalyticsRepository) NetMovements(ctx context.Context, from, to time.Time) (map[uint]int, error) {
	var rows []bookSum
	err := dbFrom(ctx, r.db).Model(&InventoryTransactionModel{}).
		Select("book_id, SUM(quantity) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计库存流水失败")
	}
	return sumsToMap(rows), nil
}

func sumsToMap(rows []bookSum) map[uint]int {
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.BookID] = row.Total
	}
	return out
}

func categoryOrDefault(code *string) string {
	if code == nil || *code == "" {
		return book.UncategorizedCode
	}
	return *code
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
