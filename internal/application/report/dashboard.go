package report

import (
	"context"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
)

// KPIs 仪表盘KPI
func (s *Service) KPIs(ctx context.Context) (*report.DashboardKPIs, error) {
	now := s.now()
	mtd := report.MonthToDate(now)
	key := cache.Key(PrefixDashboard, "kpis", mtd.EndString())
	kpis, err := cache.Remember(ctx, s.cache, "dashboard_kpis", key, s.ttl.Dashboard, func(ctx context.Context) (report.DashboardKPIs, error) {
		month, err := s.analytics.SalesLines(ctx, mtd.From(), mtd.To())
		if err != nil {
			return report.DashboardKPIs{}, err
		}
		prev := report.PreviousMonthToDate(now)
		previous, err := s.analytics.SalesLines(ctx, prev.From(), prev.To())
		if err != nil {
			return report.DashboardKPIs{}, err
		}
		stats, err := s.analytics.CustomerStats(ctx)
		if err != nil {
			return report.DashboardKPIs{}, err
		}
		rows, err := s.analytics.StockRows(ctx)
		if err != nil {
			return report.DashboardKPIs{}, err
		}
		return report.BuildKPIs(now, month, previous, stats, rows), nil
	})
	if err != nil {
		return nil, err
	}
	return &kpis, nil
}

// DashboardTrends 最近7天与30天销售序列
func (s *Service) DashboardTrends(ctx context.Context) (*report.DashboardTrends, error) {
	now := s.now()
	r := report.LastDays(30, now)
	key := cache.Key(PrefixDashboard, "trends", r.EndString())
	trends, err := cache.Remember(ctx, s.cache, "dashboard_trends", key, s.ttl.Dashboard, func(ctx context.Context) (report.DashboardTrends, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return report.DashboardTrends{}, err
		}
		return report.BuildDashboardTrends(now, lines), nil
	})
	if err != nil {
		return nil, err
	}
	return &trends, nil
}

// Alerts 趋势告警与库存告警
func (s *Service) Alerts(ctx context.Context) ([]report.Alert, error) {
	key := cache.Key(PrefixDashboard, "alerts", report.LastDays(1, s.now()).EndString())
	return cache.Remember(ctx, s.cache, "dashboard_alerts", key, s.ttl.Dashboard, func(ctx context.Context) ([]report.Alert, error) {
		trends, err := s.techTrends(ctx, defaultTrendDays)
		if err != nil {
			return nil, err
		}
		rows, err := s.analytics.StockRows(ctx)
		if err != nil {
			return nil, err
		}
		return report.BuildAlerts(trends, rows), nil
	})
}
