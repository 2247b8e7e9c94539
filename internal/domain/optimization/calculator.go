package optimization

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus 库存评估结果
type StockStatus string

const (
	StatusReorderNeeded StockStatus = "REORDER_NEEDED"
	StatusUnderstock    StockStatus = "UNDERSTOCK"
	StatusOptimal       StockStatus = "OPTIMAL"
	StatusOverstock     StockStatus = "OVERSTOCK"
)

// NeedsOrder 需要补货的状态
func (s StockStatus) NeedsOrder() bool {
	return s == StatusReorderNeeded || s == StatusUnderstock
}

// overstockFactor 超过最优库存1.5倍视为积压
var overstockFactor = 1.5

// Input 单本图书的计算输入
type Input struct {
	BookID          uint
	Title           string
	ListPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	CurrentStock    int // 可用库存
	ReorderQuantity int
	UnitsSold       int // 近SalesWindowDays天销量（不含已取消订单）
}

// Result 计算结果
type Result struct {
	BookID            uint            `json:"bookId"`
	Title             string          `json:"title"`
	AverageDailySales float64         `json:"averageDailySales"`
	SafetyStock       int             `json:"safetyStock"`
	ReorderPoint      int             `json:"reorderPoint"`
	OptimalStock      int             `json:"optimalStock"`
	CurrentStock      int             `json:"currentStock"`
	StockStatus       StockStatus     `json:"stockStatus"`
	SuggestedQuantity int             `json:"suggestedQuantity"`
	EstimatedCost     decimal.Decimal `json:"estimatedCost"`
	EstimatedRevenue  decimal.Decimal `json:"estimatedRevenue"`
	LeadTimeDays      int             `json:"leadTimeDays"`
	SafetyStockDays   int             `json:"safetyStockDays"`
	ReviewPeriodDays  int             `json:"reviewPeriodDays"`
}

// Calculate 计算最优库存与建议订货量
func Calculate(in Input, s Settings) Result {
	avg := float64(in.UnitsSold) / SalesWindowDays

	safety := ceil(avg * float64(s.SafetyStockDays))
	reorderPoint := ceil(avg*float64(s.LeadTimeDays)) + safety
	optimal := ceil(avg*float64(s.LeadTimeDays+s.ReviewPeriodDays)) + safety
	if optimal < s.MinStock {
		optimal = s.MinStock
	}
	if s.MaxStock != nil && optimal > *s.MaxStock {
		optimal = *s.MaxStock
	}

	status := classify(in.CurrentStock, reorderPoint, optimal)

	qty := optimal - in.CurrentStock
	if qty < 0 {
		qty = 0
	}
	if status == StatusReorderNeeded && in.ReorderQuantity > qty {
		qty = in.ReorderQuantity
	}

	q := decimal.NewFromInt(int64(qty))
	return Result{
		BookID:            in.BookID,
		Title:             in.Title,
		AverageDailySales: math.Round(avg*100) / 100,
		SafetyStock:       safety,
		ReorderPoint:      reorderPoint,
		OptimalStock:      optimal,
		CurrentStock:      in.CurrentStock,
		StockStatus:       status,
		SuggestedQuantity: qty,
		EstimatedCost:     q.Mul(in.ListPrice).Mul(s.CostRatio).Round(2),
		EstimatedRevenue:  q.Mul(in.SellingPrice).Round(2),
		LeadTimeDays:      s.LeadTimeDays,
		SafetyStockDays:   s.SafetyStockDays,
		ReviewPeriodDays:  s.ReviewPeriodDays,
	}
}

func classify(current, reorderPoint, optimal int) StockStatus {
	switch {
	case current <= reorderPoint:
		return StatusReorderNeeded
	case current < optimal:
		return StatusUnderstock
	case optimal > 0 && float64(current) > overstockFactor*float64(optimal):
		return StatusOverstock
	default:
		return StatusOptimal
	}
}

func ceil(v float64) int {
	return int(math.Ceil(v - 1e-9))
}

// highCostThreshold 建议订货总成本超过该值时提示优先级
var highCostThreshold = decimal.NewFromInt(10000)

// StatusBreakdown 需补货图书的状态分布
type StatusBreakdown struct {
	ReorderNeeded int `json:"reorderNeeded"`
	Understock    int `json:"understock"`
}

// ConstraintAnalysis 订货约束分析
type ConstraintAnalysis struct {
	TotalBooksNeedingReorder int             `json:"totalBooksNeedingReorder"`
	TotalEstimatedCost       decimal.Decimal `json:"totalEstimatedCost"`
	TotalEstimatedRevenue    decimal.Decimal `json:"totalEstimatedRevenue"`
	EstimatedProfit          decimal.Decimal `json:"estimatedProfit"`
	StatusBreakdown          StatusBreakdown `json:"statusBreakdown"`
	Recommendations          []string        `json:"recommendations"`
}

// Analyze 汇总需补货图书并给出建议（now决定季节性建议）
func Analyze(results []Result, now time.Time) ConstraintAnalysis {
	a := ConstraintAnalysis{
		TotalEstimatedCost:    decimal.Zero,
		TotalEstimatedRevenue: decimal.Zero,
	}
	for _, r := range results {
		switch r.StockStatus {
		case StatusReorderNeeded:
			a.StatusBreakdown.ReorderNeeded++
		case StatusUnderstock:
			a.StatusBreakdown.Understock++
		default:
			continue
		}
		a.TotalBooksNeedingReorder++
		a.TotalEstimatedCost = a.TotalEstimatedCost.Add(r.EstimatedCost)
		a.TotalEstimatedRevenue = a.TotalEstimatedRevenue.Add(r.EstimatedRevenue)
	}
	a.EstimatedProfit = a.TotalEstimatedRevenue.Sub(a.TotalEstimatedCost)
	a.Recommendations = recommendations(a, now)
	return a
}

func recommendations(a ConstraintAnalysis, now time.Time) []string {
	if a.TotalBooksNeedingReorder == 0 {
		return []string{"All books are optimally stocked"}
	}

	var recs []string
	if a.StatusBreakdown.ReorderNeeded > 0 {
		recs = append(recs, fmt.Sprintf("Immediate action required: %d books need reordering", a.StatusBreakdown.ReorderNeeded))
	}
	if a.TotalEstimatedCost.GreaterThan(highCostThreshold) {
		recs = append(recs, "Consider prioritizing high-value or fast-moving items due to high total cost")
	}
	switch now.Month() {
	case time.August, time.September, time.October:
		recs = append(recs, "Consider increasing orders due to back-to-school season")
	case time.December, time.January:
		recs = append(recs, "Review year-end inventory levels and New Year learning trends")
	}
	return recs
}
