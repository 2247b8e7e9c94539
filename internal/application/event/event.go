// Package event 领域事件的路由键与载荷
//
// 事件在事务提交之后发布，发布失败只记日志，不影响已完成的业务操作。
// cmd/worker 订阅 order.* 与 inventory.*，据此淘汰报表缓存。
package event

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

// 路由键
const (
	OrderCreated       = "order.created"
	OrderConfirmed     = "order.confirmed"
	OrderStatusChanged = "order.status_changed"
	OrderCancelled     = "order.cancelled"

	InventoryChanged  = "inventory.changed"
	InventoryLowStock = "inventory.low_stock"

	ReportBatchCompleted = "report.batch_completed"
)

// OrderEvent 订单事件载荷
type OrderEvent struct {
	OrderID     uint      `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from,omitempty"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"totalAmount"`
	BookIDs     []uint    `json:"bookIds"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// StockEvent 库存事件载荷
type StockEvent struct {
	BookID         uint      `json:"bookId"`
	MovementType   string    `json:"movementType"`
	Quantity       int       `json:"quantity"`
	StoreStock     int       `json:"storeStock"`
	WarehouseStock int       `json:"warehouseStock"`
	AvailableStock int       `json:"availableStock"`
	ReorderPoint   *int      `json:"reorderPoint,omitempty"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewStockEvent 按库存行当前快照生成载荷
func NewStockEvent(inv *inventory.Inventory, movementType string, qty int, now time.Time) StockEvent {
	return StockEvent{
		BookID:         inv.BookID,
		MovementType:   movementType,
		Quantity:       qty,
		StoreStock:     inv.StoreStock,
		WarehouseStock: inv.WarehouseStock,
		AvailableStock: inv.AvailableStock(),
		ReorderPoint:   inv.ReorderPoint,
		Status:         string(inv.Status()),
		OccurredAt:     now,
	}
}

// BatchEvent 报表批处理完成
type BatchEvent struct {
	RunID      string    `json:"runId"`
	BatchType  string    `json:"batchType"`
	ReportID   string    `json:"reportId"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publish 发布事件，pub为nil时忽略
func Publish(ctx context.Context, pub mq.Publisher, routingKey string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("routing_key", routingKey).Msg("事件发布失败")
	}
}
