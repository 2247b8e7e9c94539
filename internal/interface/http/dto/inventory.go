package dto

// ListInventoryQuery 库存列表条件
type ListInventoryQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK"`
}

// ReceiveRequest 入库
type ReceiveRequest struct {
	BookID   uint   `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Location string `json:"location" example:"STORE"` // STORE入门店，其他入仓库
	Note     string `json:"note" binding:"max=255"`
}

// SellRequest 零售
type SellRequest struct {
	BookID   uint   `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note" binding:"max=255"`
}

// AdjustRequest 盘点，直接覆盖门店与仓库库存
type AdjustRequest struct {
	BookID         uint   `json:"bookId" binding:"required"`
	StoreStock     int    `json:"storeStock" binding:"min=0"`
	WarehouseStock int    `json:"warehouseStock" binding:"min=0"`
	Note           string `json:"note" binding:"max=255"`
}

// InventorySettingsRequest 补货参数
type InventorySettingsRequest struct {
	ReorderPoint    *int   `json:"reorderPoint" binding:"omitempty,min=0"`
	ReorderQuantity int    `json:"reorderQuantity" binding:"min=0"`
	LocationCode    string `json:"locationCode" binding:"max=20"`
}
