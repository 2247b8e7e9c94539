package inventory

import "time"

// MovementType 库存流水类型
type MovementType string

const (
	MovementReceive MovementType = "RECEIVE" // 入库
	MovementSell    MovementType = "SELL"    // 门店零售
	MovementAdjust  MovementType = "ADJUST"  // 盘点调整
	MovementReserve MovementType = "RESERVE" // 订单确认扣减
	MovementRelease MovementType = "RELEASE" // 订单取消归还
)

// Movement 库存流水（只追加，不修改）
type Movement struct {
	ID              uint
	BookID          uint
	Type            MovementType
	Quantity        int // 总库存变化量（出库为负）
	StoreBefore     int
	StoreAfter      int
	WarehouseBefore int
	WarehouseAfter  int
	OrderID         *uint
	Note            string
	CreatedAt       time.Time
}

// IsOutbound 出库类流水（用于周转率统计）
func (m *Movement) IsOutbound() bool {
	return m.Type == MovementSell || m.Type == MovementReserve
}
