// Package report 报表：从订单、库存、顾客历史数据聚合出销售、库存、顾客与技术趋势报表
//
// 本包只包含报表模型与纯聚合函数；数据由AnalyticsRepository读取，
// 缓存、持久化与导出在application层完成。
package report

import (
	"time"
)

const dateLayout = "2006-01-02"

// DateRange 按天的闭区间 [Start, End]
type DateRange struct {
	Start time.Time // 当天00:00
	End   time.Time // 当天00:00（包含当天）
}

// NewDateRange 校验并构造日期区间
// 规则：start ≤ end；start不早于now前5年；end不晚于now后1天
func NewDateRange(start, end, now time.Time) (DateRange, error) {
	start, end = truncateDay(start), truncateDay(end)
	today := truncateDay(now)

	if start.After(end) {
		return DateRange{}, ErrInvalidDateRange.WithMessage("开始日期不能晚于结束日期")
	}
	if start.Before(today.AddDate(-5, 0, 0)) {
		return DateRange{}, ErrInvalidDateRange.WithMessage("开始日期不能早于5年前")
	}
	if end.After(today.AddDate(0, 0, 1)) {
		return DateRange{}, ErrInvalidDateRange.WithMessage("结束日期不能晚于明天")
	}
	return DateRange{Start: start, End: end}, nil
}

// LastDays 截至今天（含）的最近n天
func LastDays(n int, now time.Time) DateRange {
	today := truncateDay(now)
	return DateRange{Start: today.AddDate(0, 0, -(n - 1)), End: today}
}

// Days 区间天数
func (r DateRange) Days() int {
	return daysBetween(r.Start, r.End) + 1
}

// From 查询下界（含）
func (r DateRange) From() time.Time { return r.Start }

// To 查询上界（不含）
func (r DateRange) To() time.Time { return r.End.AddDate(0, 0, 1) }

// Previous 紧邻的前一个等长区间
func (r DateRange) Previous() DateRange {
	d := r.Days()
	return DateRange{Start: r.Start.AddDate(0, 0, -d), End: r.Start.AddDate(0, 0, -1)}
}

// Contains 时间点是否落在区间内
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From()) && t.Before(r.To())
}

// Split 二等分，天数为奇数时后半段多一天
func (r DateRange) Split() (first, second DateRange) {
	half := r.Days() / 2
	if half == 0 {
		return DateRange{Start: r.Start, End: r.Start.AddDate(0, 0, -1)}, r
	}
	mid := r.Start.AddDate(0, 0, half)
	return DateRange{Start: r.Start, End: mid.AddDate(0, 0, -1)}, DateRange{Start: mid, End: r.End}
}

// StartString / EndString yyyy-MM-dd
func (r DateRange) StartString() string { return r.Start.Format(dateLayout) }
func (r DateRange) EndString() string   { return r.End.Format(dateLayout) }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthToDate 本月1日至今天
func MonthToDate(now time.Time) DateRange {
	today := truncateDay(now)
	return DateRange{Start: today.AddDate(0, 0, 1-today.Day()), End: today}
}

// PreviousMonthToDate 上月1日至上月同日（上月没有该日时取月末）
func PreviousMonthToDate(now time.Time) DateRange {
	cur := MonthToDate(now)
	start := cur.Start.AddDate(0, -1, 0)
	end := start.AddDate(0, 0, cur.Days()-1)
	if lastDay := cur.Start.AddDate(0, 0, -1); end.After(lastDay) {
		end = lastDay
	}
	return DateRange{Start: start, End: end}
}
