// Package optimization 最优库存计算
//
// 以近90天日均销量为基础：
//
//	安全库存   = ceil(日均 × 安全天数)
//	补货点     = ceil(日均 × 采购提前期) + 安全库存
//	最优库存   = ceil(日均 × (提前期 + 盘点周期)) + 安全库存，再按最小/最大库存截断
package optimization

import (
	"context"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// SalesWindowDays 日均销量统计窗口
const SalesWindowDays = 90

// 默认参数
const (
	DefaultLeadTimeDays     = 7
	DefaultSafetyStockDays  = 3
	DefaultReviewPeriodDays = 14
)

// DefaultCostRatio 进货成本占定价的比例
var DefaultCostRatio = decimal.RequireFromString("0.7")

// Settings 单本图书的库存参数
type Settings struct {
	BookID           uint
	LeadTimeDays     int
	SafetyStockDays  int
	ReviewPeriodDays int
	CostRatio        decimal.Decimal
	MinStock         int
	MaxStock         *int
}

// DefaultSettings 未单独设置时的参数
func DefaultSettings(bookID uint) Settings {
	return Settings{
		BookID:           bookID,
		LeadTimeDays:     DefaultLeadTimeDays,
		SafetyStockDays:  DefaultSafetyStockDays,
		ReviewPeriodDays: DefaultReviewPeriodDays,
		CostRatio:        DefaultCostRatio,
	}
}

// Validate 校验参数
func (s Settings) Validate() error {
	if s.LeadTimeDays < 0 || s.SafetyStockDays < 0 || s.ReviewPeriodDays < 0 || s.MinStock < 0 {
		return ErrInvalidSettings.WithMessage("天数和最小库存不能为负数")
	}
	if s.CostRatio.IsNegative() || s.CostRatio.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidSettings.WithMessage("成本比例必须在0到1之间")
	}
	if s.MaxStock != nil && *s.MaxStock < s.MinStock {
		return ErrInvalidSettings.WithMessage("最大库存不能小于最小库存")
	}
	return nil
}

// ErrInvalidSettings 库存参数非法
var ErrInvalidSettings = apperrors.New(apperrors.ErrCodeInvalidParams, "库存参数不合法")

// SettingsRepository 库存参数仓储
type SettingsRepository interface {
	// FindByBookIDs 返回已配置的图书参数，未配置的图书不在结果中
	FindByBookIDs(ctx context.Context, bookIDs []uint) (map[uint]Settings, error)
	Save(ctx context.Context, s Settings) error
}
