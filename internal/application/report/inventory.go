package report

import (
	"context"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
)

// stockInputs 库存快照与近90天的销量、库存净变动
type stockInputs struct {
	rows  []report.StockRow
	units map[uint]int
	net   map[uint]int
}

func (s *Service) loadStock(ctx context.Context) (stockInputs, error) {
	rows, err := s.analytics.StockRows(ctx)
	if err != nil {
		return stockInputs{}, err
	}
	now := s.now()
	from := now.AddDate(0, 0, -report.TurnoverPeriodDays)
	units, err := s.analytics.UnitsSold(ctx, from, now)
	if err != nil {
		return stockInputs{}, err
	}
	net, err := s.analytics.NetMovements(ctx, from, now)
	if err != nil {
		return stockInputs{}, err
	}
	return stockInputs{rows: rows, units: units, net: net}, nil
}

// Inventory 库存报表
func (s *Service) Inventory(ctx context.Context) (*report.InventoryReport, error) {
	key := cache.Key(PrefixInventory, "summary")
	rep, err := cache.Remember(ctx, s.cache, "inventory", key, s.ttl.Inventory, func(ctx context.Context) (report.InventoryReport, error) {
		in, err := s.loadStock(ctx)
		if err != nil {
			return report.InventoryReport{}, err
		}
		return report.BuildInventoryReport(in.rows, in.units, in.net, s.now()), nil
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Turnover 近90天库存周转（category为空时全部图书）
func (s *Service) Turnover(ctx context.Context, category string) (*report.TurnoverReport, error) {
	category = normalizeCategory(category)
	key := cache.Key(PrefixInventory, "turnover", category)
	rep, err := cache.Remember(ctx, s.cache, "inventory_turnover", key, s.ttl.Inventory, func(ctx context.Context) (report.TurnoverReport, error) {
		in, err := s.loadStock(ctx)
		if err != nil {
			return report.TurnoverReport{}, err
		}
		return report.BuildTurnoverReport(in.rows, in.units, in.net, category), nil
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Reorder 补货建议
func (s *Service) Reorder(ctx context.Context) ([]report.ReorderSuggestion, error) {
	key := cache.Key(PrefixInventory, "reorder")
	return cache.Remember(ctx, s.cache, "inventory_reorder", key, s.ttl.Inventory, func(ctx context.Context) ([]report.ReorderSuggestion, error) {
		rows, err := s.analytics.StockRows(ctx)
		if err != nil {
			return nil, err
		}
		return report.ReorderSuggestions(rows), nil
	})
}
