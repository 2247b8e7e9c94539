package report

import (
	"context"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
)

// RFMAnalysis RFM评分及分群汇总
type RFMAnalysis struct {
	RFMAnalysis []report.RFMScore        `json:"rfmAnalysis"`
	Segments    []report.CustomerSegment `json:"segments"`
}

// Customers 顾客分析
func (s *Service) Customers(ctx context.Context) (*report.CustomerAnalytics, error) {
	key := cache.Key(PrefixCustomers, "analytics")
	ca, err := cache.Remember(ctx, s.cache, "customers", key, s.ttl.Customers, func(ctx context.Context) (report.CustomerAnalytics, error) {
		stats, err := s.analytics.CustomerStats(ctx)
		if err != nil {
			return report.CustomerAnalytics{}, err
		}
		now := s.now()
		w := report.TrendWindow(now)
		lines, err := s.analytics.SalesLines(ctx, w.From(), w.To())
		if err != nil {
			return report.CustomerAnalytics{}, err
		}
		return report.BuildCustomerAnalytics(stats, lines, now), nil
	})
	if err != nil {
		return nil, err
	}
	return &ca, nil
}

// RFM RFM评分
func (s *Service) RFM(ctx context.Context) (*RFMAnalysis, error) {
	key := cache.Key(PrefixCustomers, "rfm")
	rfm, err := cache.Remember(ctx, s.cache, "customers_rfm", key, s.ttl.Customers, func(ctx context.Context) (RFMAnalysis, error) {
		stats, err := s.analytics.CustomerStats(ctx)
		if err != nil {
			return RFMAnalysis{}, err
		}
		scores := report.ComputeRFM(stats, s.now())
		return RFMAnalysis{RFMAnalysis: scores, Segments: report.SummarizeRFM(scores)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &rfm, nil
}

// Segments 按顾客类型分群
func (s *Service) Segments(ctx context.Context) ([]report.CustomerSegment, error) {
	key := cache.Key(PrefixCustomers, "segments")
	return cache.Remember(ctx, s.cache, "customers_segments", key, s.ttl.Customers, func(ctx context.Context) ([]report.CustomerSegment, error) {
		stats, err := s.analytics.CustomerStats(ctx)
		if err != nil {
			return nil, err
		}
		return report.Segments(stats), nil
	})
}
