package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/domain/report"
)

func TestReportRepository_StoredReports(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	r := &report.DateRange{Start: utc(2026, 3, 1, 0), End: utc(2026, 3, 31, 0)}
	sr, err := report.NewStoredReport("3月销售", report.TypeSales, map[string]string{"category": "GO"}, r,
		map[string]int{"totalOrders": 3}, "admin@store.jp", utc(2026, 4, 1, 0))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sr))

	got, err := repo.FindByID(ctx, sr.ID)
	require.NoError(t, err)
	assert.Equal(t, "GO", got.Parameters["category"])
	assert.JSONEq(t, `{"totalOrders":3}`, string(got.Content))
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(r.Start))

	require.NoError(t, repo.Delete(ctx, sr.ID))
	_, err = repo.FindByID(ctx, sr.ID)
	assert.ErrorIs(t, err, report.ErrReportNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, sr.ID), report.ErrReportNotFound)
}

func TestReportRepository_Templates(t *testing.T) {
	db := newTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	tpl := &report.Template{
		Code: "weekly-go", Name: "Weekly Go", ReportType: report.TypeSales,
		Parameters: []string{"startDate"}, VisualizationTypes: []string{"bar"}, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.SaveTemplate(ctx, tpl))
	assert.NotZero(t, tpl.ID)

	again := *tpl
	again.ID = 0
	assert.ErrorIs(t, repo.SaveTemplate(ctx, &again), report.ErrTemplateDuplicate)

	list, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"bar"}, list[0].VisualizationTypes)
}

func TestAnalyticsRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedCategories(t, db, "GO")
	goBook := seedBook(t, db, "9784297100001", "Go言語実践", book.LevelIntermediate, "GO")
	plain := seedBook(t, db, "9784297100002", "アルゴリズム", book.LevelBeginner)

	customers := NewCustomerRepository(db)
	taro := &customer.Customer{Name: "山田 太郎", CustomerType: customer.TypeIndividual, Status: customer.StatusActive}
	require.NoError(t, customers.Create(ctx, taro))
	idle := &customer.Customer{Name: "注文なし", CustomerType: customer.TypeStudent, Status: customer.StatusActive}
	require.NoError(t, customers.Create(ctx, idle))

	orders := NewOrderRepository(db)
	o1 := newOrder(t, "ORD-20260301-0001", &taro.ID, order.TypeOnline, utc(2026, 3, 1, 10), map[uint]int{goBook.ID: 2})
	o2 := newOrder(t, "ORD-20260302-0001", nil, order.TypeWalkIn, utc(2026, 3, 2, 10), map[uint]int{plain.ID: 1})
	o3 := newOrder(t, "ORD-20260303-0001", &taro.ID, order.TypeOnline, utc(2026, 3, 3, 10), map[uint]int{goBook.ID: 5})
	for _, o := range []*order.Order{o1, o2, o3} {
		require.NoError(t, orders.Create(ctx, o))
	}
	_, err := o3.TransitionTo(order.StatusCancelled, utc(2026, 3, 3, 11))
	require.NoError(t, err)
	require.NoError(t, orders.Update(ctx, o3))

	inventories := NewInventoryRepository(db)
	inv := seedInventory(t, inventories, goBook.ID, 4, 6, intPtr(5))
	m, err := inv.Sell(2, "", utc(2026, 3, 1, 10))
	require.NoError(t, err)
	require.NoError(t, inventories.AppendMovements(ctx, m))

	repo := NewAnalyticsRepository(db)
	from, to := utc(2026, 3, 1, 0), utc(2026, 3, 10, 0)

	t.Run("销售明细排除已取消订单", func(t *testing.T) {
		lines, err := repo.SalesLines(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		assert.Equal(t, "GO", lines[0].Category)
		assert.Equal(t, string(customer.TypeIndividual), lines[0].CustomerType)
		assert.Equal(t, string(book.LevelIntermediate), lines[0].Level)
		assert.True(t, lines[0].Revenue.Equal(decimal.RequireFromString("2000")))

		assert.Equal(t, book.UncategorizedCode, lines[1].Category)
		assert.Nil(t, lines[1].CustomerID)
		assert.Empty(t, lines[1].CustomerType)
		assert.Equal(t, string(order.TypeWalkIn), lines[1].OrderType)
	})

	t.Run("区间右开", func(t *testing.T) {
		lines, err := repo.SalesLines(ctx, from, utc(2026, 3, 2, 10))
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("销量", func(t *testing.T) {
		sold, err := repo.UnitsSold(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, map[uint]int{goBook.ID: 2, plain.ID: 1}, sold)
	})

	t.Run("顾客汇总", func(t *testing.T) {
		stats, err := repo.CustomerStats(ctx)
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, 1, stats[0].OrderCount)
		assert.True(t, stats[0].Revenue.Equal(decimal.RequireFromString("2000")))
		require.NotNil(t, stats[0].LastOrderDate)
		assert.True(t, stats[0].LastOrderDate.Equal(utc(2026, 3, 1, 10)))
		assert.Zero(t, stats[1].OrderCount)
		assert.Nil(t, stats[1].LastOrderDate)
	})

	t.Run("库存快照与流水", func(t *testing.T) {
		rows, err := repo.StockRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1, "只包含有库存记录的图书")
		assert.Equal(t, "GO", rows[0].Category)
		assert.Equal(t, 6, rows[0].WarehouseStock)
		assert.True(t, rows[0].ListPrice.Equal(decimal.RequireFromString("3000")))

		net, err := repo.NetMovements(ctx, from, to)
		require.NoError(t, err)
		assert.Equal(t, -2, net[goBook.ID])
	})
}
