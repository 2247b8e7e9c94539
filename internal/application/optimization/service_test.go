package optimization

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/optimization"
	"github.com/xiebiao/techbookstore/internal/testutil/memstore"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

type fakeSales struct {
	units    map[uint]int
	from, to time.Time
}

func (f *fakeSales) UnitsSold(_ context.Context, from, to time.Time) (map[uint]int, error) {
	f.from, f.to = from, to
	return f.units, nil
}

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	sales   *fakeSales
	optimal uint // 库存充足
	reorder uint // 低于补货点
	under   uint // 低于最优库存
}

func newFixture() *fixture {
	store := memstore.New()
	f := &fixture{sales: &fakeSales{units: map[uint]int{}}}
	f.optimal = store.SeedBook("Go入門", 1000, 50, 0, nil)
	f.reorder = store.SeedBook("Rust入門", 1000, 10, 0, nil)
	f.under = store.SeedBook("Zig入門", 1000, 20, 10, nil)
	for _, id := range []uint{f.optimal, f.reorder, f.under} {
		f.sales.units[id] = 180 // 日均2：补货点20，最优48
	}
	f.svc = NewService(store.Books(), store.Inventories(), store.Settings(), f.sales, zerolog.Nop())
	f.svc.now = func() time.Time { return now }
	return f
}

func TestService_OptimalStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	r, err := f.svc.OptimalStock(ctx, f.reorder)
	require.NoError(t, err)
	assert.Equal(t, optimization.StatusReorderNeeded, r.StockStatus)
	assert.Equal(t, 20, r.ReorderPoint)
	assert.Equal(t, 48, r.OptimalStock)
	assert.Equal(t, 38, r.SuggestedQuantity)
	assert.Equal(t, "26600", r.EstimatedCost.String())
	assert.Equal(t, now.AddDate(0, 0, -90), f.sales.from, "近90天销量")
	assert.Equal(t, now, f.sales.to)

	_, err = f.svc.OptimalStock(ctx, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_SaveSettings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	maxStock := 30

	r, err := f.svc.SaveSettings(ctx, SettingsRequest{BookID: f.reorder, MaxStock: &maxStock})
	require.NoError(t, err)
	assert.Equal(t, 30, r.OptimalStock)
	assert.Equal(t, 20, r.SuggestedQuantity)
	assert.Equal(t, optimization.DefaultLeadTimeDays, r.LeadTimeDays)

	leadTime := 14
	r, err = f.svc.SaveSettings(ctx, SettingsRequest{BookID: f.reorder, LeadTimeDays: &leadTime})
	require.NoError(t, err)
	assert.Equal(t, 34, r.ReorderPoint, "2×14+6")
	assert.Equal(t, 62, r.OptimalStock, "新参数覆盖旧参数，最大库存不再生效")

	badMin := 40
	_, err = f.svc.SaveSettings(ctx, SettingsRequest{BookID: f.reorder, MinStock: badMin, MaxStock: &maxStock})
	assert.ErrorIs(t, err, optimization.ErrInvalidSettings)
}

func TestService_Suggestions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	suggestions, err := f.svc.OrderSuggestions(ctx, []uint{f.under, f.optimal, f.under, 999})
	require.NoError(t, err)
	require.Len(t, suggestions, 1, "只保留需要订货的图书，重复和不存在的ID被忽略")
	assert.Equal(t, optimization.StatusUnderstock, suggestions[0].StockStatus)
	assert.Equal(t, 18, suggestions[0].SuggestedQuantity)

	needed, err := f.svc.ReorderNeeded(ctx)
	require.NoError(t, err)
	require.Len(t, needed, 2)
	assert.Equal(t, f.reorder, needed[0].BookID)
	assert.Equal(t, f.under, needed[1].BookID)

	_, err = f.svc.OrderSuggestions(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
}

func TestService_BulkCalculate(t *testing.T) {
	f := newFixture()
	results, err := f.svc.BulkCalculate(context.Background(), []uint{f.under, f.optimal})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, f.optimal, results[0].BookID)
	assert.Equal(t, optimization.StatusOptimal, results[0].StockStatus)
}

func TestService_ConstraintAnalysis(t *testing.T) {
	f := newFixture()
	a, err := f.svc.ConstraintAnalysis(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalBooksNeedingReorder)
	assert.Equal(t, optimization.StatusBreakdown{ReorderNeeded: 1, Understock: 1}, a.StatusBreakdown)
	assert.Equal(t, "39200", a.TotalEstimatedCost.String())
	assert.Equal(t, "56000", a.TotalEstimatedRevenue.String())
	assert.Equal(t, "16800", a.EstimatedProfit.String())
	assert.Equal(t, []string{
		"Immediate action required: 1 books need reordering",
		"Consider prioritizing high-value or fast-moving items due to high total cost",
	}, a.Recommendations)
}
