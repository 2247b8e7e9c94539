package dto

import "github.com/shopspring/decimal"

// OptimalStockSettingsRequest 单本图书的库存参数，省略项使用默认值
type OptimalStockSettingsRequest struct {
	BookID           uint             `json:"bookId" binding:"required"`
	LeadTimeDays     *int             `json:"leadTimeDays" binding:"omitempty,min=0,max=365" example:"7"`
	SafetyStockDays  *int             `json:"safetyStockDays" binding:"omitempty,min=0,max=365" example:"3"`
	ReviewPeriodDays *int             `json:"reviewPeriodDays" binding:"omitempty,min=0,max=365" example:"14"`
	CostRatio        *decimal.Decimal `json:"costRatio" swaggertype:"number" example:"0.7"`
	MinStock         int              `json:"minStock" binding:"min=0"`
	MaxStock         *int             `json:"maxStock" binding:"omitempty,min=0"`
}

// BookIDsRequest 图书ID列表
type BookIDsRequest struct {
	BookIDs []uint `json:"bookIds" binding:"required,min=1,dive,min=1"`
}
