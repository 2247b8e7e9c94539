// Package optimization 最优库存与补货建议
package optimization

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/optimization"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

const tracerName = "techbookstore/application/optimization"

// maxBulkBooks 单次批量计算的图书上限
const maxBulkBooks = 500

// SalesReader 销量读取（由分析仓储实现）
type SalesReader interface {
	UnitsSold(ctx context.Context, from, to time.Time) (map[uint]int, error)
}

// Service 库存优化
type Service struct {
	books       book.Repository
	inventories inventory.Repository
	settings    optimization.SettingsRepository
	sales       SalesReader
	logger      zerolog.Logger
	now         func() time.Time
}

// NewService 创建库存优化服务
func NewService(
	books book.Repository,
	inventories inventory.Repository,
	settings optimization.SettingsRepository,
	sales SalesReader,
	logger zerolog.Logger,
) *Service {
	return &Service{
		books:       books,
		inventories: inventories,
		settings:    settings,
		sales:       sales,
		logger:      logger.With().Str("usecase", "optimization").Logger(),
		now:         time.Now,
	}
}

// OptimalStock 单本图书的最优库存
func (s *Service) OptimalStock(ctx context.Context, bookID uint) (result *optimization.Result, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "OptimalStock")
	defer func() { tracing.End(span, err) }()

	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	inv, err := s.inventories.FindByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	results, err := s.calculate(ctx, []*inventory.Inventory{inv})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, book.ErrBookNotFound
	}
	return &results[0], nil
}

// SettingsRequest 库存参数；nil字段使用默认值
type SettingsRequest struct {
	BookID           uint
	LeadTimeDays     *int
	SafetyStockDays  *int
	ReviewPeriodDays *int
	CostRatio        *decimal.Decimal
	MinStock         int
	MaxStock         *int
}

// SaveSettings 保存图书的库存参数并返回重新计算的结果
func (s *Service) SaveSettings(ctx context.Context, req SettingsRequest) (*optimization.Result, error) {
	if _, err := s.books.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	st := optimization.DefaultSettings(req.BookID)
	if req.LeadTimeDays != nil {
		st.LeadTimeDays = *req.LeadTimeDays
	}
	if req.SafetyStockDays != nil {
		st.SafetyStockDays = *req.SafetyStockDays
	}
	if req.ReviewPeriodDays != nil {
		st.ReviewPeriodDays = *req.ReviewPeriodDays
	}
	if req.CostRatio != nil {
		st.CostRatio = *req.CostRatio
	}
	st.MinStock = req.MinStock
	st.MaxStock = req.MaxStock
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if err := s.settings.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info().
		Uint("book_id", st.BookID).
		Int("lead_time_days", st.LeadTimeDays).
		Int("safety_stock_days", st.SafetyStockDays).
		Int("review_period_days", st.ReviewPeriodDays).
		Msg("库存参数已保存")
	return s.OptimalStock(ctx, req.BookID)
}

// OrderSuggestions 指定图书中需要订货的建议（REORDER_NEEDED、UNDERSTOCK）
func (s *Service) OrderSuggestions(ctx context.Context, bookIDs []uint) ([]optimization.Result, error) {
	results, err := s.BulkCalculate(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	return needsOrder(results), nil
}

// ReorderNeeded 全部需要订货的图书
func (s *Service) ReorderNeeded(ctx context.Context) ([]optimization.Result, error) {
	results, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return needsOrder(results), nil
}

// ConstraintAnalysis 订货成本与建议
func (s *Service) ConstraintAnalysis(ctx context.Context) (*optimization.ConstraintAnalysis, error) {
	results, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	a := optimization.Analyze(results, s.now())
	return &a, nil
}

// BulkCalculate 批量计算；不存在的图书被忽略
func (s *Service) BulkCalculate(ctx context.Context, bookIDs []uint) (results []optimization.Result, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BulkCalculate")
	defer func() { tracing.End(span, err) }()

	if len(bookIDs) == 0 {
		return nil, apperrors.ErrInvalidParams.WithMessage("bookIds不能为空")
	}
	if len(bookIDs) > maxBulkBooks {
		return nil, apperrors.ErrInvalidParams.WithMessage("单次最多计算500本图书")
	}

	rows := make([]*inventory.Inventory, 0, len(bookIDs))
	seen := make(map[uint]bool, len(bookIDs))
	for _, id := range bookIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		inv, err := s.inventories.FindByBookID(ctx, id)
		if errors.Is(err, inventory.ErrInventoryNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, inv)
	}
	return s.calculate(ctx, rows)
}

func (s *Service) all(ctx context.Context) ([]optimization.Result, error) {
	rows, err := s.inventories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, rows)
}

// calculate 一次性读取图书、参数和销量后逐本计算，结果按图书ID排序
func (s *Service) calculate(ctx context.Context, rows []*inventory.Inventory) ([]optimization.Result, error) {
	if len(rows) == 0 {
		return []optimization.Result{}, nil
	}
	ids := make([]uint, len(rows))
	for i, inv := range rows {
		ids[i] = inv.BookID
	}

	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	configured, err := s.settings.FindByBookIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sold, err := s.sales.UnitsSold(ctx, now.AddDate(0, 0, -optimization.SalesWindowDays), now)
	if err != nil {
		return nil, err
	}

	results := make([]optimization.Result, 0, len(rows))
	for _, inv := range rows {
		b, ok := byID[inv.BookID]
		if !ok {
			continue
		}
		st, ok := configured[inv.BookID]
		if !ok {
			st = optimization.DefaultSettings(inv.BookID)
		}
		results = append(results, optimization.Calculate(optimization.Input{
			BookID:          b.ID,
			Title:           b.Title,
			ListPrice:       b.ListPrice,
			SellingPrice:    b.SellingPrice,
			CurrentStock:    inv.AvailableStock(),
			ReorderQuantity: inv.ReorderQuantity,
			UnitsSold:       sold[b.ID],
		}, st))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].BookID < results[j].BookID })
	return results, nil
}

func needsOrder(results []optimization.Result) []optimization.Result {
	out := make([]optimization.Result, 0, len(results))
	for _, r := range results {
		if r.StockStatus.NeedsOrder() {
			out = append(out, r)
		}
	}
	return out
}
