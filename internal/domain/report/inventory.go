package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TurnoverPeriodDays 周转率统计窗口
const TurnoverPeriodDays = 90

// 周转分类阈值（90天内的周转次数）
const (
	fastTurnover = 2.0
	slowTurnover = 0.5
)

// BuildInventoryReport 库存报表
// unitsSold、netMovements 为最近TurnoverPeriodDays天的销量与库存净变动
func BuildInventoryReport(rows []StockRow, unitsSold, netMovements map[uint]int, now time.Time) InventoryReport {
	rows = sortedRows(rows)

	rep := InventoryReport{
		ReportDate:         truncateDay(now).Format(dateLayout),
		TotalProducts:      len(rows),
		TotalValue:         decimal.Zero,
		Items:              make([]InventoryItem, 0, len(rows)),
		ReorderSuggestions: ReorderSuggestions(rows),
	}
	for _, r := range rows {
		switch r.Status() {
		case "LOW_STOCK":
			rep.LowStockCount++
		case "OUT_OF_STOCK":
			rep.OutOfStockCount++
		}
		rep.TotalValue = rep.TotalValue.Add(r.ListPrice.Mul(decimal.NewFromInt(int64(r.TotalStock()))))
		rep.Items = append(rep.Items, InventoryItem{
			BookID:         r.BookID,
			Title:          r.Title,
			Category:       categoryKey(r.Category),
			StoreStock:     r.StoreStock,
			WarehouseStock: r.WarehouseStock,
			AvailableStock: r.AvailableStock(),
			ReorderPoint:   r.ReorderPoint,
			Status:         r.Status(),
		})
	}
	rep.TurnoverSummary = SummarizeTurnover(ComputeTurnover(rows, unitsSold, netMovements))
	return rep
}

// ReorderSuggestions 低库存图书的补货建议
// 建议量取补货批量与"补到补货点之上"所需数量中的较大者
func ReorderSuggestions(rows []StockRow) []ReorderSuggestion {
	out := make([]ReorderSuggestion, 0)
	for _, r := range sortedRows(rows) {
		if r.ReorderPoint == nil || r.TotalStock() > *r.ReorderPoint {
			continue
		}
		qty := *r.ReorderPoint - r.TotalStock() + 1
		if r.ReorderQuantity > qty {
			qty = r.ReorderQuantity
		}
		out = append(out, ReorderSuggestion{
			BookID:            r.BookID,
			Title:             r.Title,
			Category:          categoryKey(r.Category),
			CurrentStock:      r.TotalStock(),
			ReorderPoint:      *r.ReorderPoint,
			SuggestedQuantity: qty,
		})
	}
	return out
}

// ComputeTurnover 周转率 = 窗口内销量 / 平均库存
// 平均库存 = (期初 + 期末) / 2，期初由当前库存减去窗口内的净变动推出
func ComputeTurnover(rows []StockRow, unitsSold, netMovements map[uint]int) []TurnoverItem {
	out := make([]TurnoverItem, 0, len(rows))
	for _, r := range sortedRows(rows) {
		closing := r.TotalStock()
		opening := closing - netMovements[r.BookID]
		avg := float64(opening+closing) / 2
		if avg < 0 {
			avg = 0
		}
		units := unitsSold[r.BookID]

		var rate float64
		switch {
		case avg > 0:
			rate = float64(units) / avg
		case units > 0:
			rate = float64(units)
		}

		out = append(out, TurnoverItem{
			BookID:         r.BookID,
			Title:          r.Title,
			Category:       categoryKey(r.Category),
			UnitsSold:      units,
			AverageStock:   round2(avg),
			TurnoverRate:   round2(rate),
			Classification: classifyTurnover(units, rate),
		})
	}
	return out
}

// SummarizeTurnover 周转汇总
func SummarizeTurnover(items []TurnoverItem) TurnoverSummary {
	var sum TurnoverSummary
	if len(items) == 0 {
		return sum
	}
	var total float64
	for _, it := range items {
		total += it.TurnoverRate
		switch it.Classification {
		case TurnoverFast:
			sum.FastMoving++
		case TurnoverSlow:
			sum.SlowMoving++
		case TurnoverDead:
			sum.DeadStock++
		}
	}
	sum.AverageTurnover = round2(total / float64(len(items)))
	return sum
}

// BuildTurnoverReport 周转报表（可按分类过滤）
func BuildTurnoverReport(rows []StockRow, unitsSold, netMovements map[uint]int, category string) TurnoverReport {
	if category != "" {
		filtered := make([]StockRow, 0, len(rows))
		for _, r := range rows {
			if categoryKey(r.Category) == category {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	items := ComputeTurnover(rows, unitsSold, netMovements)
	return TurnoverReport{
		Category:   category,
		PeriodDays: TurnoverPeriodDays,
		Items:      items,
		Summary:    SummarizeTurnover(items),
	}
}

func classifyTurnover(units int, rate float64) string {
	switch {
	case units == 0:
		return TurnoverDead
	case rate >= fastTurnover:
		return TurnoverFast
	case rate < slowTurnover:
		return TurnoverSlow
	default:
		return TurnoverNormal
	}
}

func sortedRows(rows []StockRow) []StockRow {
	out := make([]StockRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}
