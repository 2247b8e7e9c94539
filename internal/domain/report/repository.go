package report

import (
	"context"
	"time"
)

// Repository 报表与模板持久化
type Repository interface {
	Save(ctx context.Context, r *StoredReport) error
	FindByID(ctx context.Context, id string) (*StoredReport, error)
	Delete(ctx context.Context, id string) error

	// SaveTemplate 保存自定义模板（编码重复返回ErrTemplateDuplicate）
	SaveTemplate(ctx context.Context, t *Template) error
	ListTemplates(ctx context.Context) ([]*Template, error)
}

// AnalyticsRepository 读取交易历史，所有区间为 [from, to)
type AnalyticsRepository interface {
	// SalesLines 区间内未取消订单的明细
	SalesLines(ctx context.Context, from, to time.Time) ([]SaleLine, error)

	// CustomerStats 全部顾客及其未取消订单的汇总
	CustomerStats(ctx context.Context) ([]CustomerStat, error)

	// StockRows 所有在售图书的库存快照
	StockRows(ctx context.Context) ([]StockRow, error)

	// UnitsSold 区间内各图书销量（未取消订单）
	UnitsSold(ctx context.Context, from, to time.Time) (map[uint]int, error)

	// NetMovements 区间内各图书库存净变动（库存流水之和）
	NetMovements(ctx context.Context, from, to time.Time) (map[uint]int, error)
}
