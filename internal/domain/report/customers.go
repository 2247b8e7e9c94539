package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// 顾客状态/类型（与customer包保持一致）
const (
	customerActive  = "ACTIVE"
	customerDeleted = "DELETED"
)

// CustomerTypes 顾客类型的分群顺序
var CustomerTypes = []string{"INDIVIDUAL", "CORPORATE", "STUDENT"}

// trendMonths 顾客趋势覆盖的月数（含本月）
const trendMonths = 6

// TrendWindow 顾客趋势需要的订单明细区间
func TrendWindow(now time.Time) DateRange {
	mtd := MonthToDate(now)
	return DateRange{Start: mtd.Start.AddDate(0, -(trendMonths - 1), 0), End: mtd.End}
}

// BuildCustomerAnalytics 顾客分析
// lines 为TrendWindow(now)区间内的订单明细
func BuildCustomerAnalytics(stats []CustomerStat, lines []SaleLine, now time.Time) CustomerAnalytics {
	live := liveCustomers(stats)

	ca := CustomerAnalytics{
		TotalCustomers: len(live),
		Segments:       Segments(live),
		RFMAnalysis:    ComputeRFM(live, now),
		Trends:         customerTrends(live, lines, now),
	}
	since := truncateDay(now).AddDate(0, 0, -30)
	for _, s := range live {
		if s.Status == customerActive {
			ca.ActiveCustomers++
		}
		if !s.CreatedAt.Before(since) {
			ca.NewCustomers++
		}
	}
	return ca
}

// Segments 按顾客类型分群（已删除的顾客不计入）
func Segments(stats []CustomerStat) []CustomerSegment {
	live := liveCustomers(stats)
	byType := make(map[string]*CustomerSegment, len(CustomerTypes))
	for _, t := range CustomerTypes {
		byType[t] = &CustomerSegment{Segment: t, Revenue: decimal.Zero}
	}
	for _, s := range live {
		seg, ok := byType[s.CustomerType]
		if !ok {
			continue
		}
		seg.Count++
		seg.Revenue = seg.Revenue.Add(s.Revenue)
	}

	out := make([]CustomerSegment, 0, len(CustomerTypes))
	for _, t := range CustomerTypes {
		seg := byType[t]
		if len(live) > 0 {
			seg.Percentage = round2(float64(seg.Count) * 100 / float64(len(live)))
		}
		out = append(out, *seg)
	}
	return out
}

// ComputeRFM 对有购买记录的顾客做RFM五分位打分
// 排序：总分降序，同分按顾客ID升序
func ComputeRFM(stats []CustomerStat, now time.Time) []RFMScore {
	var buyers []CustomerStat
	for _, s := range stats {
		if s.Status == customerDeleted || s.OrderCount == 0 || s.LastOrderDate == nil {
			continue
		}
		buyers = append(buyers, s)
	}
	if len(buyers) == 0 {
		return []RFMScore{}
	}

	recency := make([]float64, len(buyers))
	frequency := make([]float64, len(buyers))
	monetary := make([]float64, len(buyers))
	for i, b := range buyers {
		// 越近越好，取负数后统一按"越大越好"打分
		recency[i] = -float64(daysBetween(*b.LastOrderDate, now))
		frequency[i] = float64(b.OrderCount)
		monetary[i] = b.Revenue.InexactFloat64()
	}
	rs, fs, ms := quintiles(recency), quintiles(frequency), quintiles(monetary)

	scores := make([]RFMScore, len(buyers))
	for i, b := range buyers {
		scores[i] = RFMScore{
			CustomerID: b.CustomerID,
			Name:       b.Name,
			Recency:    daysBetween(*b.LastOrderDate, now),
			Frequency:  b.OrderCount,
			Monetary:   b.Revenue,
			RScore:     rs[i],
			FScore:     fs[i],
			MScore:     ms[i],
			Segment:    RFMSegment(rs[i], fs[i], ms[i]),
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		si := scores[i].RScore + scores[i].FScore + scores[i].MScore
		sj := scores[j].RScore + scores[j].FScore + scores[j].MScore
		if si != sj {
			return si > sj
		}
		return scores[i].CustomerID < scores[j].CustomerID
	})
	return scores
}

// RFMSegment 分群规则
func RFMSegment(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return SegmentChampions
	case r >= 3 && f >= 3:
		return SegmentLoyal
	case r >= 4:
		return SegmentPotential
	case f >= 3 || m >= 3:
		return SegmentAtRisk
	default:
		return SegmentLost
	}
}

// SummarizeRFM 各RFM分群的人数与营收
func SummarizeRFM(scores []RFMScore) []CustomerSegment {
	byLabel := make(map[string]*CustomerSegment, len(RFMSegments))
	for _, label := range RFMSegments {
		byLabel[label] = &CustomerSegment{Segment: label, Revenue: decimal.Zero}
	}
	for _, s := range scores {
		seg := byLabel[s.Segment]
		seg.Count++
		seg.Revenue = seg.Revenue.Add(s.Monetary)
	}
	out := make([]CustomerSegment, 0, len(RFMSegments))
	for _, label := range RFMSegments {
		seg := byLabel[label]
		if len(scores) > 0 {
			seg.Percentage = round2(float64(seg.Count) * 100 / float64(len(scores)))
		}
		out = append(out, *seg)
	}
	return out
}

// quintiles 按排名打1~5分，值越大分越高；并列取并列组的最低名次
func quintiles(values []float64) []int {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	scores := make([]int, n)
	first := 0
	for pos, i := range idx {
		if pos > 0 && values[i] != values[idx[pos-1]] {
			first = pos
		}
		score := ((first+1)*5 + n - 1) / n
		if score < 1 {
			score = 1
		}
		if score > 5 {
			score = 5
		}
		scores[i] = score
	}
	return scores
}

func customerTrends(stats []CustomerStat, lines []SaleLine, now time.Time) []CustomerTrendPoint {
	window := TrendWindow(now)

	points := make([]CustomerTrendPoint, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := window.Start.AddDate(0, i, 0).Format("2006-01")
		points[i] = CustomerTrendPoint{Month: m, Revenue: decimal.Zero}
		index[m] = i
	}

	for _, s := range stats {
		if i, ok := index[s.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			points[i].NewCustomers++
		}
	}

	buyers := make([]map[uint]struct{}, trendMonths)
	for _, l := range lines {
		i, ok := index[l.OrderDate.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		points[i].Revenue = points[i].Revenue.Add(l.Revenue)
		if l.CustomerID != nil {
			if buyers[i] == nil {
				buyers[i] = make(map[uint]struct{})
			}
			buyers[i][*l.CustomerID] = struct{}{}
		}
	}
	for i := range points {
		points[i].ActiveBuyers = len(buyers[i])
	}
	return points
}

func liveCustomers(stats []CustomerStat) []CustomerStat {
	out := make([]CustomerStat, 0, len(stats))
	for _, s := range stats {
		if s.Status != customerDeleted {
			out = append(out, s)
		}
	}
	return out
}
