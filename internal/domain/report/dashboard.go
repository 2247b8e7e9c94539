package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BuildKPIs 仪表盘KPI
// monthLines 为MonthToDate(now)的明细，prevLines 为PreviousMonthToDate(now)的明细
func BuildKPIs(now time.Time, monthLines, prevLines []SaleLine, stats []CustomerStat, rows []StockRow) DashboardKPIs {
	today := LastDays(1, now)
	var todayLines []SaleLine
	for _, l := range monthLines {
		if today.Contains(l.OrderDate) {
			todayLines = append(todayLines, l)
		}
	}

	monthRevenue := sumRevenue(monthLines)
	monthOrders := countOrders(monthLines)

	kpis := DashboardKPIs{
		Date:                 today.StartString(),
		TodayRevenue:         sumRevenue(todayLines),
		TodayOrders:          countOrders(todayLines),
		MonthRevenue:         monthRevenue,
		MonthOrders:          monthOrders,
		AverageOrderValue:    averageOrderValue(monthRevenue, monthOrders),
		MonthOverMonthGrowth: GrowthRate(monthRevenue, sumRevenue(prevLines)),
		Inventory:            InventoryKPIs{TotalProducts: len(rows), TotalValue: decimal.Zero},
	}

	monthStart := MonthToDate(now).Start
	for _, s := range liveCustomers(stats) {
		kpis.Customers.Total++
		if s.Status == customerActive {
			kpis.Customers.Active++
		}
		if !s.CreatedAt.Before(monthStart) {
			kpis.Customers.NewThisMonth++
		}
	}

	for _, r := range rows {
		switch r.Status() {
		case "LOW_STOCK":
			kpis.Inventory.LowStock++
		case "OUT_OF_STOCK":
			kpis.Inventory.OutOfStock++
		}
		kpis.Inventory.TotalValue = kpis.Inventory.TotalValue.Add(r.ListPrice.Mul(decimal.NewFromInt(int64(r.TotalStock()))))
	}
	return kpis
}

// BuildDashboardTrends 最近7天与30天的日序列，lines 需覆盖最近30天
func BuildDashboardTrends(now time.Time, lines []SaleLine) DashboardTrends {
	return DashboardTrends{
		Last7Days:  DailyTrend(LastDays(7, now), lines),
		Last30Days: DailyTrend(LastDays(30, now), lines),
	}
}

// BuildAlerts 趋势告警 + 库存告警
func BuildAlerts(trends TechTrendReport, rows []StockRow) []Alert {
	alerts := make([]Alert, 0)
	for _, t := range trends.Categories {
		switch t.Trend {
		case TrendRising:
			alerts = append(alerts, Alert{
				Type:     AlertTypeTrend,
				Severity: SeverityInfo,
				Category: t.Category,
				Message:  fmt.Sprintf("Sales of %s are rising (%+.1f%%)", t.Category, t.GrowthRate),
			})
		case TrendDeclining:
			alerts = append(alerts, Alert{
				Type:     AlertTypeTrend,
				Severity: SeverityWarning,
				Category: t.Category,
				Message:  fmt.Sprintf("Sales of %s are declining (%+.1f%%)", t.Category, t.GrowthRate),
			})
		}
	}

	for _, r := range sortedRows(rows) {
		switch r.Status() {
		case "OUT_OF_STOCK":
			alerts = append(alerts, Alert{
				Type:     AlertTypeStock,
				Severity: SeverityCritical,
				BookID:   r.BookID,
				Message:  fmt.Sprintf("%s is out of stock", r.Title),
			})
		case "LOW_STOCK":
			alerts = append(alerts, Alert{
				Type:     AlertTypeStock,
				Severity: SeverityWarning,
				BookID:   r.BookID,
				Message:  fmt.Sprintf("%s is low on stock (%d left, reorder point %d)", r.Title, r.TotalStock(), *r.ReorderPoint),
			})
		}
	}

	// 严重程度高的排前面
	rank := map[string]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}
	sort.SliceStable(alerts, func(i, j int) bool { return rank[alerts[i].Severity] < rank[alerts[j].Severity] })
	return alerts
}
