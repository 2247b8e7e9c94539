package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func line(orderID, bookID uint, at time.Time, orderType, category string, qty int, revenue int64) SaleLine {
	return SaleLine{
		OrderID:   orderID,
		OrderDate: at,
		OrderType: orderType,
		BookID:    bookID,
		Title:     "Book",
		Category:  category,
		Level:     "BEGINNER",
		Quantity:  qty,
		Revenue:   decimal.NewFromInt(revenue),
	}
}

func TestNewDateRange(t *testing.T) {
	now := day0.Add(15 * time.Hour)

	t.Run("合法区间", func(t *testing.T) {
		r, err := NewDateRange(day0.AddDate(0, 0, -6), day0, now)
		require.NoError(t, err)
		assert.Equal(t, 7, r.Days())
		assert.Equal(t, "2026-03-04", r.StartString())
	})

	cases := map[string][2]time.Time{
		"开始晚于结束": {day0, day0.AddDate(0, 0, -1)},
		"早于5年前":  {day0.AddDate(-5, 0, -1), day0},
		"晚于明天":   {day0, day0.AddDate(0, 0, 2)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewDateRange(c[0], c[1], now)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}

	t.Run("明天是允许的", func(t *testing.T) {
		_, err := NewDateRange(day0, day0.AddDate(0, 0, 1), now)
		assert.NoError(t, err)
	})
}

func TestDateRange_PreviousAndSplit(t *testing.T) {
	r := DateRange{Start: day0.AddDate(0, 0, -9), End: day0}
	prev := r.Previous()
	assert.Equal(t, 10, prev.Days())
	assert.Equal(t, r.Start.AddDate(0, 0, -1), prev.End)

	first, second := r.Split()
	assert.Equal(t, 5, first.Days())
	assert.Equal(t, 5, second.Days())
	assert.Equal(t, first.End.AddDate(0, 0, 1), second.Start)
}

func TestPreviousMonthToDate_ClampsToMonthEnd(t *testing.T) {
	now := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)
	prev := PreviousMonthToDate(now)
	assert.Equal(t, "2026-02-01", prev.StartString())
	assert.Equal(t, "2026-02-28", prev.EndString())
}

func TestBuildSalesReport(t *testing.T) {
	r := DateRange{Start: day0.AddDate(0, 0, -2), End: day0}
	lines := []SaleLine{
		line(1, 10, day0.AddDate(0, 0, -2).Add(10*time.Hour), channelOnline, "GO", 2, 6000),
		line(1, 11, day0.AddDate(0, 0, -2).Add(10*time.Hour), channelOnline, "RUST", 1, 4000),
		line(2, 10, day0.Add(9*time.Hour), channelWalkIn, "GO", 1, 3000),
		line(3, 12, day0.Add(11*time.Hour), channelPhone, "", 1, 1000),
	}
	previous := []SaleLine{
		line(9, 10, day0.AddDate(0, 0, -4), channelOnline, "GO", 2, 6000),
	}

	rep := BuildSalesReport(r, lines, previous, "", 10)

	assert.Equal(t, "14000", rep.TotalRevenue.String())
	assert.Equal(t, 3, rep.TotalOrders)
	assert.Equal(t, 5, rep.TotalQuantity)
	assert.Equal(t, "4666.67", rep.AverageOrderValue.String())

	t.Run("日序列补零", func(t *testing.T) {
		require.Len(t, rep.SalesTrends, 3)
		assert.Equal(t, "10000", rep.SalesTrends[0].Revenue.String())
		assert.Equal(t, 1, rep.SalesTrends[0].OrderCount)
		assert.True(t, rep.SalesTrends[1].Revenue.IsZero())
		assert.Equal(t, 2, rep.SalesTrends[2].OrderCount)
	})

	t.Run("排行按营收降序", func(t *testing.T) {
		require.Len(t, rep.Rankings, 3)
		assert.Equal(t, uint(10), rep.Rankings[0].BookID)
		assert.Equal(t, "9000", rep.Rankings[0].Revenue.String())
		assert.Equal(t, 1, rep.Rankings[0].Rank)
		assert.Equal(t, Uncategorized, rep.Rankings[2].Category)
	})

	t.Run("渠道拆分", func(t *testing.T) {
		assert.Equal(t, "10000", rep.ChannelBreakdown.Online.String())
		assert.Equal(t, "3000", rep.ChannelBreakdown.WalkIn.String())
		assert.Equal(t, "1000", rep.ChannelBreakdown.Phone.String())
	})

	t.Run("分类增长率", func(t *testing.T) {
		require.Len(t, rep.CategorySales, 3)
		goSales := rep.CategorySales[0]
		assert.Equal(t, "GO", goSales.Category)
		assert.InDelta(t, 50.0, goSales.GrowthRate, 1e-9)
		assert.InDelta(t, 100.0, rep.CategorySales[1].GrowthRate, 1e-9)
	})

	t.Run("按分类过滤", func(t *testing.T) {
		goOnly := BuildSalesReport(r, lines, previous, "GO", 10)
		assert.Equal(t, "9000", goOnly.TotalRevenue.String())
		assert.Equal(t, 2, goOnly.TotalOrders)
	})
}

func TestRankings_Limit(t *testing.T) {
	lines := []SaleLine{
		line(1, 1, day0, channelOnline, "GO", 1, 100),
		line(2, 2, day0, channelOnline, "GO", 1, 300),
		line(3, 3, day0, channelOnline, "GO", 1, 200),
	}
	top := Rankings(lines, 2)
	require.Len(t, top, 2)
	assert.Equal(t, []uint{2, 3}, []uint{top[0].BookID, top[1].BookID})
}

func TestGrowthRateAndTrendLabel(t *testing.T) {
	assert.InDelta(t, -25.0, GrowthRate(decimal.NewFromInt(75), decimal.NewFromInt(100)), 1e-9)
	assert.Zero(t, GrowthRate(decimal.Zero, decimal.Zero))
	assert.Equal(t, 100.0, GrowthRate(decimal.NewFromInt(1), decimal.Zero))

	assert.Equal(t, TrendRising, TrendLabel(10.5))
	assert.Equal(t, TrendStable, TrendLabel(10))
	assert.Equal(t, TrendStable, TrendLabel(-10))
	assert.Equal(t, TrendDeclining, TrendLabel(-10.01))
}

func TestBuildTechTrends(t *testing.T) {
	r := DateRange{Start: day0.AddDate(0, 0, -9), End: day0}
	early := day0.AddDate(0, 0, -8)
	recent := day0.AddDate(0, 0, -1)
	lines := []SaleLine{
		line(1, 1, early, channelOnline, "GO", 1, 1000),
		line(2, 1, recent, channelOnline, "GO", 1, 1500),
		line(3, 2, early, channelOnline, "JAVA", 1, 2000),
		line(4, 2, recent, channelOnline, "JAVA", 1, 1000),
		line(5, 3, early, channelOnline, "RUST", 1, 1000),
		line(6, 3, recent, channelOnline, "RUST", 1, 1050),
		line(7, 4, day0.AddDate(0, 0, -30), channelOnline, "COBOL", 1, 9999),
	}

	rep := BuildTechTrends(r, lines)
	require.Len(t, rep.Categories, 3, "区间外的明细不参与")
	byCat := map[string]TechTrend{}
	for _, c := range rep.Categories {
		byCat[c.Category] = c
	}
	assert.Equal(t, TrendRising, byCat["GO"].Trend)
	assert.Equal(t, TrendDeclining, byCat["JAVA"].Trend)
	assert.Equal(t, TrendStable, byCat["RUST"].Trend)
	assert.InDelta(t, 50.0, byCat["GO"].GrowthRate, 1e-9)
	assert.Equal(t, 10, rep.Days)
}

func TestDrillDown(t *testing.T) {
	r := DateRange{Start: day0.AddDate(0, 0, -40), End: day0}
	corp := uint(7)
	lines := []SaleLine{
		line(1, 1, day0, channelOnline, "GO", 1, 3000),
		line(2, 2, day0.AddDate(0, 0, -35), channelOnline, "GO", 1, 1000),
	}
	lines[0].CustomerID = &corp
	lines[0].CustomerType = "CORPORATE"
	lines[1].Level = "ADVANCED"

	res, err := DrillDown(TypeSales, DimensionCustomerSegment, r, lines)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "CORPORATE", res.Rows[0].Key)
	assert.InDelta(t, 75.0, res.Rows[0].Share, 1e-9)
	assert.Equal(t, "GUEST", res.Rows[1].Key)

	res, err = DrillDown(TypeSales, DimensionTimePeriod, r, lines)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", res.Rows[0].Key)
	assert.Equal(t, "2026-02", res.Rows[1].Key)

	res, err = DrillDown(TypeSales, DimensionBookLevel, r, lines)
	require.NoError(t, err)
	assert.Equal(t, "BEGINNER", res.Rows[0].Key)

	_, err = DrillDown(TypeSales, "weather", r, lines)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}
