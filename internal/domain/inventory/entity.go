// Package inventory 库存聚合
//
// 每本图书一行库存：门店库存（StoreStock）与仓库库存（WarehouseStock）。
// 可用库存 = 门店 + 仓库 − 预留。销售与订单确认只扣减门店库存，
// 校验时按可用库存计算，因此门店库存可能为负（由仓库调拨补足）。
// 每次变动都生成一条流水（Movement）。
package inventory

import (
	"strings"
	"time"
)

// LocationStore 入库到门店；其他取值入库到仓库
const LocationStore = "STORE"

// StockStatus 库存状态
type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Inventory 图书库存
type Inventory struct {
	ID               uint
	BookID           uint
	StoreStock       int
	WarehouseStock   int
	ReservedCount    int
	LocationCode     string
	ReorderPoint     *int // 为空表示不参与低库存预警
	ReorderQuantity  int
	LastReceivedDate *time.Time
	LastSoldDate     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New 新书上架时创建库存
func New(bookID uint, storeStock, warehouseStock int, reorderPoint *int, reorderQuantity int, locationCode string) (*Inventory, error) {
	if storeStock < 0 || warehouseStock < 0 || reorderQuantity < 0 {
		return nil, ErrNegativeStock
	}
	if reorderPoint != nil && *reorderPoint < 0 {
		return nil, ErrNegativeStock
	}
	now := time.Now()
	return &Inventory{
		BookID:          bookID,
		StoreStock:      storeStock,
		WarehouseStock:  warehouseStock,
		LocationCode:    locationCode,
		ReorderPoint:    reorderPoint,
		ReorderQuantity: reorderQuantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AvailableStock 可用库存
func (i *Inventory) AvailableStock() int {
	return i.StoreStock + i.WarehouseStock - i.ReservedCount
}

// TotalStock 总库存
func (i *Inventory) TotalStock() int {
	return i.StoreStock + i.WarehouseStock
}

// IsLowStock 设置了补货点且总库存不高于补货点
func (i *Inventory) IsLowStock() bool {
	return i.ReorderPoint != nil && i.TotalStock() <= *i.ReorderPoint
}

// IsOutOfStock 总库存为0
func (i *Inventory) IsOutOfStock() bool {
	return i.TotalStock() == 0
}

// Status 缺货优先于低库存
func (i *Inventory) Status() StockStatus {
	switch {
	case i.IsOutOfStock():
		return StatusOutOfStock
	case i.IsLowStock():
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// CanFulfill 可用库存是否满足数量
func (i *Inventory) CanFulfill(quantity int) bool {
	return i.AvailableStock() >= quantity
}

// Receive 入库：location为STORE时增加门店库存，否则增加仓库库存
func (i *Inventory) Receive(quantity int, location, note string, now time.Time) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	m := i.begin(MovementReceive, now)
	if strings.EqualFold(location, LocationStore) {
		i.StoreStock += quantity
	} else {
		i.WarehouseStock += quantity
	}
	i.LastReceivedDate = &now
	return i.finish(m, quantity, nil, note), nil
}

// Sell 门店零售：要求可用库存充足，扣减门店库存
func (i *Inventory) Sell(quantity int, note string, now time.Time) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !i.CanFulfill(quantity) {
		return nil, insufficient(i.BookID, i.AvailableStock(), quantity)
	}
	m := i.begin(MovementSell, now)
	i.StoreStock -= quantity
	i.LastSoldDate = &now
	return i.finish(m, -quantity, nil, note), nil
}

// Adjust 盘点：直接覆盖门店与仓库库存，不校验预留
func (i *Inventory) Adjust(storeStock, warehouseStock int, note string, now time.Time) (*Movement, error) {
	if storeStock < 0 || warehouseStock < 0 {
		return nil, ErrNegativeStock
	}
	m := i.begin(MovementAdjust, now)
	delta := storeStock + warehouseStock - i.TotalStock()
	i.StoreStock = storeStock
	i.WarehouseStock = warehouseStock
	return i.finish(m, delta, nil, note), nil
}

// Reserve 订单确认：扣减门店库存（调用方须先对订单全部明细做可用性检查）
func (i *Inventory) Reserve(quantity int, orderID uint, now time.Time) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !i.CanFulfill(quantity) {
		return nil, insufficient(i.BookID, i.AvailableStock(), quantity)
	}
	m := i.begin(MovementReserve, now)
	i.StoreStock -= quantity
	return i.finish(m, -quantity, &orderID, ""), nil
}

// Release 订单取消：归还门店库存
func (i *Inventory) Release(quantity int, orderID uint, now time.Time) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	m := i.begin(MovementRelease, now)
	i.StoreStock += quantity
	return i.finish(m, quantity, &orderID, ""), nil
}

// UpdateSettings 修改补货参数
func (i *Inventory) UpdateSettings(reorderPoint *int, reorderQuantity int, locationCode string) error {
	if reorderQuantity < 0 || (reorderPoint != nil && *reorderPoint < 0) {
		return ErrNegativeStock
	}
	i.ReorderPoint = reorderPoint
	i.ReorderQuantity = reorderQuantity
	if locationCode != "" {
		i.LocationCode = locationCode
	}
	i.UpdatedAt = time.Now()
	return nil
}

func (i *Inventory) begin(t MovementType, now time.Time) *Movement {
	return &Movement{
		BookID:          i.BookID,
		Type:            t,
		StoreBefore:     i.StoreStock,
		WarehouseBefore: i.WarehouseStock,
		CreatedAt:       now,
	}
}

func (i *Inventory) finish(m *Movement, delta int, orderID *uint, note string) *Movement {
	i.UpdatedAt = m.CreatedAt
	m.Quantity = delta
	m.StoreAfter = i.StoreStock
	m.WarehouseAfter = i.WarehouseStock
	m.OrderID = orderID
	m.Note = note
	return m
}
