package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/techbookstore/internal/domain/optimization"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建最优库存参数仓储
func NewSettingsRepository(db *gorm.DB) optimization.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FindByBookIDs(ctx context.Context, bookIDs []uint) (map[uint]optimization.Settings, error) {
	out := make(map[uint]optimization.Settings, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var models []OptimalStockSettingsModel
	if err := dbFrom(ctx, r.db).Where("book_id IN ?", bookIDs).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询库存参数失败")
	}
	for _, m := range models {
		out[m.BookID] = optimization.Settings{
			BookID:           m.BookID,
			LeadTimeDays:     m.LeadTimeDays,
			SafetyStockDays:  m.SafetyStockDays,
			ReviewPeriodDays: m.ReviewPeriodDays,
			CostRatio:        m.CostRatio,
			MinStock:         m.MinStock,
			MaxStock:         m.MaxStock,
		}
	}
	return out, nil
}

// Save 按book_id插入或覆盖
func (r *settingsRepository) Save(ctx context.Context, s optimization.Settings) error {
	model := OptimalStockSettingsModel{
		BookID:           s.BookID,
		LeadTimeDays:     s.LeadTimeDays,
		SafetyStockDays:  s.SafetyStockDays,
		ReviewPeriodDays: s.ReviewPeriodDays,
		CostRatio:        s.CostRatio,
		MinStock:         s.MinStock,
		MaxStock:         s.MaxStock,
	}
	err := dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lead_time_days", "safety_stock_days", "review_period_days",
			"cost_ratio", "min_stock", "max_stock", "updated_at",
		}),
	}).Create(&model).Error
	if err != nil {
		return apperrors.Wrap(err, "保存库存参数失败")
	}
	return nil
}
