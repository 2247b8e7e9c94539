package report

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// 订单类型（与order包保持一致，这里只用于渠道拆分）
const (
	channelOnline = "ONLINE"
	channelWalkIn = "WALK_IN"
	channelPhone  = "PHONE"
)

// Uncategorized 无分类图书的聚合键
const Uncategorized = "UNCATEGORIZED"

// trendThreshold 趋势判定阈值（%）
const trendThreshold = 10.0

var hundred = decimal.NewFromInt(100)

// BuildSalesReport 聚合区间内的销售报表
// previous 为前一个等长区间的明细，用于计算分类增长率
func BuildSalesReport(r DateRange, lines, previous []SaleLine, category string, rankLimit int) SalesReport {
	if category != "" {
		lines = FilterCategory(lines, category)
		previous = FilterCategory(previous, category)
	}

	total := sumRevenue(lines)
	orders := countOrders(lines)

	return SalesReport{
		StartDate:         r.StartString(),
		EndDate:           r.EndString(),
		Category:          category,
		TotalRevenue:      total,
		TotalOrders:       orders,
		TotalQuantity:     sumQuantity(lines),
		AverageOrderValue: averageOrderValue(total, orders),
		SalesTrends:       DailyTrend(r, lines),
		Rankings:          Rankings(lines, rankLimit),
		ChannelBreakdown:  Channels(lines),
		CategorySales:     CategoryBreakdown(lines, previous),
	}
}

// FilterCategory 只保留指定分类的明细
func FilterCategory(lines []SaleLine, category string) []SaleLine {
	if category == "" {
		return lines
	}
	out := make([]SaleLine, 0, len(lines))
	for _, l := range lines {
		if categoryKey(l.Category) == category {
			out = append(out, l)
		}
	}
	return out
}

// DailyTrend 按天汇总，没有销售的日期补零
func DailyTrend(r DateRange, lines []SaleLine) []TrendPoint {
	type acc struct {
		revenue  decimal.Decimal
		quantity int
		orders   map[uint]struct{}
	}
	byDay := make(map[string]*acc)
	for _, l := range lines {
		if !r.Contains(l.OrderDate) {
			continue
		}
		key := l.OrderDate.In(r.Start.Location()).Format(dateLayout)
		a, ok := byDay[key]
		if !ok {
			a = &acc{orders: make(map[uint]struct{})}
			byDay[key] = a
		}
		a.revenue = a.revenue.Add(l.Revenue)
		a.quantity += l.Quantity
		a.orders[l.OrderID] = struct{}{}
	}

	points := make([]TrendPoint, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		p := TrendPoint{Date: key, Revenue: decimal.Zero}
		if a, ok := byDay[key]; ok {
			p.Revenue = a.revenue
			p.Quantity = a.quantity
			p.OrderCount = len(a.orders)
		}
		points = append(points, p)
	}
	return points
}

// Rankings 按营收降序的畅销书排行，limit<=0时不截断
func Rankings(lines []SaleLine, limit int) []RankingItem {
	byBook := make(map[uint]*RankingItem)
	for _, l := range lines {
		item, ok := byBook[l.BookID]
		if !ok {
			item = &RankingItem{BookID: l.BookID, Title: l.Title, Category: categoryKey(l.Category), Revenue: decimal.Zero}
			byBook[l.BookID] = item
		}
		item.Revenue = item.Revenue.Add(l.Revenue)
		item.Quantity += l.Quantity
	}

	items := make([]RankingItem, 0, len(byBook))
	for _, item := range byBook {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Revenue.Cmp(items[j].Revenue); c != 0 {
			return c > 0
		}
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity > items[j].Quantity
		}
		return items[i].BookID < items[j].BookID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}

// Channels 按订单类型拆分营收
func Channels(lines []SaleLine) ChannelBreakdown {
	cb := ChannelBreakdown{Online: decimal.Zero, WalkIn: decimal.Zero, Phone: decimal.Zero}
	for _, l := range lines {
		switch l.OrderType {
		case channelOnline:
			cb.Online = cb.Online.Add(l.Revenue)
		case channelWalkIn:
			cb.WalkIn = cb.WalkIn.Add(l.Revenue)
		case channelPhone:
			cb.Phone = cb.Phone.Add(l.Revenue)
		}
	}
	return cb
}

// CategoryBreakdown 分类销售及增长率
func CategoryBreakdown(lines, previous []SaleLine) []CategorySales {
	cur := groupByCategory(lines)
	prev := groupByCategory(previous)

	out := make([]CategorySales, 0, len(cur))
	for cat, g := range cur {
		prevRevenue := decimal.Zero
		if p, ok := prev[cat]; ok {
			prevRevenue = p.revenue
		}
		out = append(out, CategorySales{
			Category:   cat,
			Revenue:    g.revenue,
			Quantity:   g.quantity,
			GrowthRate: GrowthRate(g.revenue, prevRevenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// GrowthRate 增长率（%），保留两位小数
// 基期为0时：当期有营收记100，否则记0
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2).InexactFloat64()
}

// TrendLabel 增长率对应的趋势标签
func TrendLabel(growth float64) string {
	switch {
	case growth > trendThreshold:
		return TrendRising
	case growth < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// BuildTechTrends 技术分类趋势：窗口后半段营收对比前半段
func BuildTechTrends(r DateRange, lines []SaleLine) TechTrendReport {
	first, second := r.Split()

	type acc struct {
		revenue, early, recent decimal.Decimal
		quantity               int
	}
	byCat := make(map[string]*acc)
	for _, l := range lines {
		if !r.Contains(l.OrderDate) {
			continue
		}
		cat := categoryKey(l.Category)
		a, ok := byCat[cat]
		if !ok {
			a = &acc{}
			byCat[cat] = a
		}
		a.revenue = a.revenue.Add(l.Revenue)
		a.quantity += l.Quantity
		switch {
		case first.Days() > 0 && first.Contains(l.OrderDate):
			a.early = a.early.Add(l.Revenue)
		case second.Contains(l.OrderDate):
			a.recent = a.recent.Add(l.Revenue)
		}
	}

	trends := make([]TechTrend, 0, len(byCat))
	for cat, a := range byCat {
		growth := GrowthRate(a.recent, a.early)
		trends = append(trends, TechTrend{
			Category:        cat,
			Revenue:         a.revenue,
			Quantity:        a.quantity,
			PreviousRevenue: a.early,
			RecentRevenue:   a.recent,
			GrowthRate:      growth,
			Trend:           TrendLabel(growth),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if c := trends[i].Revenue.Cmp(trends[j].Revenue); c != 0 {
			return c > 0
		}
		return trends[i].Category < trends[j].Category
	})

	return TechTrendReport{
		Days:       r.Days(),
		StartDate:  r.StartString(),
		EndDate:    r.EndString(),
		Categories: trends,
	}
}

// BuildCategoryTrend 单个分类的日销售序列
func BuildCategoryTrend(r DateRange, lines []SaleLine, category string) CategoryTrend {
	lines = FilterCategory(lines, category)
	return CategoryTrend{
		Category: category,
		Days:     r.Days(),
		Revenue:  sumRevenue(lines),
		Quantity: sumQuantity(lines),
		Series:   DailyTrend(r, lines),
	}
}

// DrillDown 按维度下钻聚合
func DrillDown(reportType, dimension string, r DateRange, lines []SaleLine) (DrillDownResult, error) {
	var keyOf func(SaleLine) string
	switch dimension {
	case DimensionTechCategory:
		keyOf = func(l SaleLine) string { return categoryKey(l.Category) }
	case DimensionCustomerSegment:
		keyOf = func(l SaleLine) string {
			if l.CustomerType == "" {
				return "GUEST"
			}
			return l.CustomerType
		}
	case DimensionTimePeriod:
		keyOf = func(l SaleLine) string { return l.OrderDate.In(r.Start.Location()).Format("2006-01") }
	case DimensionBookLevel:
		keyOf = func(l SaleLine) string { return l.Level }
	default:
		return DrillDownResult{}, ErrInvalidDimension
	}

	type acc struct {
		revenue  decimal.Decimal
		quantity int
		orders   map[uint]struct{}
	}
	groups := make(map[string]*acc)
	total := decimal.Zero
	for _, l := range lines {
		k := keyOf(l)
		a, ok := groups[k]
		if !ok {
			a = &acc{orders: make(map[uint]struct{})}
			groups[k] = a
		}
		a.revenue = a.revenue.Add(l.Revenue)
		a.quantity += l.Quantity
		a.orders[l.OrderID] = struct{}{}
		total = total.Add(l.Revenue)
	}

	rows := make([]DrillDownRow, 0, len(groups))
	for k, a := range groups {
		rows = append(rows, DrillDownRow{
			Key:        k,
			Revenue:    a.revenue,
			Quantity:   a.quantity,
			OrderCount: len(a.orders),
			Share:      share(a.revenue, total),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].Key < rows[j].Key
	})

	return DrillDownResult{
		ReportType: reportType,
		Dimension:  dimension,
		StartDate:  r.StartString(),
		EndDate:    r.EndString(),
		Rows:       rows,
	}, nil
}

// =========================================
// 内部工具
// =========================================

type categoryAcc struct {
	revenue  decimal.Decimal
	quantity int
}

func groupByCategory(lines []SaleLine) map[string]*categoryAcc {
	out := make(map[string]*categoryAcc)
	for _, l := range lines {
		cat := categoryKey(l.Category)
		g, ok := out[cat]
		if !ok {
			g = &categoryAcc{}
			out[cat] = g
		}
		g.revenue = g.revenue.Add(l.Revenue)
		g.quantity += l.Quantity
	}
	return out
}

func categoryKey(c string) string {
	if c == "" {
		return Uncategorized
	}
	return c
}

func sumRevenue(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Revenue)
	}
	return total
}

func sumQuantity(lines []SaleLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func countOrders(lines []SaleLine) int {
	seen := make(map[uint]struct{}, len(lines))
	for _, l := range lines {
		seen[l.OrderID] = struct{}{}
	}
	return len(seen)
}

func averageOrderValue(total decimal.Decimal, orders int) decimal.Decimal {
	if orders == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(orders)), 2)
}

func share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).Round(2).InexactFloat64()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(truncateDay(to).Sub(truncateDay(from)).Hours() / 24))
}
