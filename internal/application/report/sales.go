package report

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

const (
	defaultRankLimit = 10
	maxRankLimit     = 100
	rankingDays      = 30
)

// SalesRequest 销售报表条件（日期含首尾两天）
type SalesRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Category  string
}

// SalesTrend 日销售序列
type SalesTrend struct {
	StartDate    string              `json:"startDate"`
	EndDate      string              `json:"endDate"`
	TotalRevenue decimal.Decimal     `json:"totalRevenue"`
	SalesTrends  []report.TrendPoint `json:"salesTrends"`
}

// SalesRanking 畅销榜
type SalesRanking struct {
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Category  string               `json:"category,omitempty"`
	Limit     int                  `json:"limit"`
	Rankings  []report.RankingItem `json:"rankings"`
}

// Sales 区间销售报表
func (s *Service) Sales(ctx context.Context, req SalesRequest) (_ *report.SalesReport, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SalesReport")
	defer func() { tracing.End(span, err) }()

	r, err := report.NewDateRange(req.StartDate, req.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	category := normalizeCategory(req.Category)
	rep, err := cache.Remember(ctx, s.cache, "sales", salesKey(r, category), s.ttl.Sales, func(ctx context.Context) (report.SalesReport, error) {
		return s.buildSales(ctx, r, category, defaultRankLimit)
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Trend 区间内的日销售序列
func (s *Service) Trend(ctx context.Context, req SalesRequest) (*SalesTrend, error) {
	r, err := report.NewDateRange(req.StartDate, req.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	key := cache.Key(PrefixSales, "trend", r.StartString(), r.EndString())
	trend, err := cache.Remember(ctx, s.cache, "sales_trend", key, s.ttl.Sales, func(ctx context.Context) (SalesTrend, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return SalesTrend{}, err
		}
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Revenue)
		}
		return SalesTrend{
			StartDate:    r.StartString(),
			EndDate:      r.EndString(),
			TotalRevenue: total,
			SalesTrends:  report.DailyTrend(r, lines),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

// Ranking 最近30天畅销榜，limit为0时取10
func (s *Service) Ranking(ctx context.Context, category string, limit int) (*SalesRanking, error) {
	if limit == 0 {
		limit = defaultRankLimit
	}
	if limit < 1 || limit > maxRankLimit {
		return nil, report.ErrInvalidParams.WithMessage("limit必须在1到100之间")
	}
	category = normalizeCategory(category)
	r := report.LastDays(rankingDays, s.now())

	key := cache.Key(PrefixSales, "ranking", r.EndString(), category, strconv.Itoa(limit))
	ranking, err := cache.Remember(ctx, s.cache, "sales_ranking", key, s.ttl.Sales, func(ctx context.Context) (SalesRanking, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return SalesRanking{}, err
		}
		return SalesRanking{
			StartDate: r.StartString(),
			EndDate:   r.EndString(),
			Category:  category,
			Limit:     limit,
			Rankings:  report.Rankings(report.FilterCategory(lines, category), limit),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &ranking, nil
}

func (s *Service) buildSales(ctx context.Context, r report.DateRange, category string, rankLimit int) (report.SalesReport, error) {
	lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
	if err != nil {
		return report.SalesReport{}, err
	}
	prev := r.Previous()
	previous, err := s.analytics.SalesLines(ctx, prev.From(), prev.To())
	if err != nil {
		return report.SalesReport{}, err
	}
	return report.BuildSalesReport(r, lines, previous, category, rankLimit), nil
}

func salesKey(r report.DateRange, category string) string {
	return cache.Key(PrefixSales, r.StartString(), r.EndString(), category)
}
