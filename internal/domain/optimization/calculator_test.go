package optimization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(current, sold90 int) Input {
	return Input{
		BookID:          1,
		Title:           "Go语言实战",
		ListPrice:       decimal.NewFromInt(3000),
		SellingPrice:    decimal.NewFromInt(3300),
		CurrentStock:    current,
		ReorderQuantity: 20,
		UnitsSold:       sold90,
	}
}

func TestCalculate_Formulas(t *testing.T) {
	// 日均 = 180/90 = 2
	r := Calculate(input(50, 180), DefaultSettings(1))

	assert.Equal(t, 2.0, r.AverageDailySales)
	assert.Equal(t, 6, r.SafetyStock)   // 2×3
	assert.Equal(t, 20, r.ReorderPoint) // 2×7 + 6
	assert.Equal(t, 48, r.OptimalStock) // 2×21 + 6
	assert.Equal(t, StatusOptimal, r.StockStatus)
	assert.Zero(t, r.SuggestedQuantity)
}

func TestCalculate_Statuses(t *testing.T) {
	tests := []struct {
		name    string
		current int
		want    StockStatus
		qty     int
	}{
		{"低于补货点", 20, StatusReorderNeeded, 28},
		{"补货点以上但低于最优", 30, StatusUnderstock, 18},
		{"超过1.5倍最优", 73, StatusOverstock, 0},
		{"正好1.5倍不算积压", 72, StatusOptimal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Calculate(input(tt.current, 180), DefaultSettings(1))
			assert.Equal(t, tt.want, r.StockStatus)
			assert.Equal(t, tt.qty, r.SuggestedQuantity)
		})
	}
}

func TestCalculate_ReorderQuantityFloor(t *testing.T) {
	// 日均0.1：安全库存1，补货点1+1=2，最优3+1=4
	r := Calculate(input(1, 9), DefaultSettings(1))
	assert.Equal(t, StatusReorderNeeded, r.StockStatus)
	assert.Equal(t, 20, r.SuggestedQuantity, "补货时至少订一个补货批量")
}

func TestCalculate_ClampAndCost(t *testing.T) {
	s := DefaultSettings(1)
	maxStock := 30
	s.MaxStock = &maxStock
	s.MinStock = 5

	r := Calculate(input(25, 180), s)
	assert.Equal(t, 30, r.OptimalStock)
	assert.Equal(t, StatusUnderstock, r.StockStatus)
	assert.Equal(t, 5, r.SuggestedQuantity)
	assert.True(t, r.EstimatedCost.Equal(decimal.NewFromInt(10500)), r.EstimatedCost.String()) // 5×3000×0.7
	assert.True(t, r.EstimatedRevenue.Equal(decimal.NewFromInt(16500)))

	idle := Calculate(input(0, 0), s)
	assert.Equal(t, 5, idle.OptimalStock, "无销量时取最小库存")
}

func TestAnalyze_Recommendations(t *testing.T) {
	reorder := Calculate(input(20, 180), DefaultSettings(1)) // 28本，成本58800
	under := Calculate(input(30, 180), DefaultSettings(1))
	optimal := Calculate(input(50, 180), DefaultSettings(1))

	t.Run("九月开学季", func(t *testing.T) {
		a := Analyze([]Result{reorder, under, optimal}, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, 2, a.TotalBooksNeedingReorder)
		assert.Equal(t, StatusBreakdown{ReorderNeeded: 1, Understock: 1}, a.StatusBreakdown)
		assert.True(t, a.EstimatedProfit.Equal(a.TotalEstimatedRevenue.Sub(a.TotalEstimatedCost)))
		assert.Equal(t, []string{
			"Immediate action required: 1 books need reordering",
			"Consider prioritizing high-value or fast-moving items due to high total cost",
			"Consider increasing orders due to back-to-school season",
		}, a.Recommendations)
	})

	t.Run("年末", func(t *testing.T) {
		a := Analyze([]Result{under}, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
		assert.Contains(t, a.Recommendations, "Review year-end inventory levels and New Year learning trends")
		assert.NotContains(t, a.Recommendations, "Immediate action required: 0 books need reordering")
	})

	t.Run("无需补货", func(t *testing.T) {
		a := Analyze([]Result{optimal}, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
		require.Len(t, a.Recommendations, 1)
		assert.Equal(t, "All books are optimally stocked", a.Recommendations[0])
	})
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings(1).Validate())

	s := DefaultSettings(1)
	s.CostRatio = decimal.RequireFromString("1.2")
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings(1)
	s.MinStock = 10
	maxStock := 5
	s.MaxStock = &maxStock
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
}
