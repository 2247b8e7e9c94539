package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/application/event"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

// StockUseCase 库存变动：入库、零售、盘点、补货参数
// 每次变动在一个事务内加行锁读取、修改并追加流水，提交后发布事件
type StockUseCase struct {
	inventories inventory.Repository
	txManager   tx.Manager
	publisher   mq.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStockUseCase 创建库存变动用例
func NewStockUseCase(inventories inventory.Repository, txManager tx.Manager, publisher mq.Publisher, logger zerolog.Logger) *StockUseCase {
	return &StockUseCase{
		inventories: inventories,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger.With().Str("usecase", "stock").Logger(),
		now:         time.Now,
	}
}

// ReceiveRequest 入库
type ReceiveRequest struct {
	BookID   uint
	Quantity int
	Location string // STORE入门店，其他入仓库
	Note     string
}

// Receive 入库
func (uc *StockUseCase) Receive(ctx context.Context, req ReceiveRequest) (*InventoryDTO, error) {
	return uc.mutate(ctx, req.BookID, func(inv *inventory.Inventory, now time.Time) (*inventory.Movement, error) {
		return inv.Receive(req.Quantity, req.Location, req.Note, now)
	})
}

// SellRequest 门店零售
type SellRequest struct {
	BookID   uint
	Quantity int
	Note     string
}

// Sell 零售出库
func (uc *StockUseCase) Sell(ctx context.Context, req SellRequest) (*InventoryDTO, error) {
	return uc.mutate(ctx, req.BookID, func(inv *inventory.Inventory, now time.Time) (*inventory.Movement, error) {
		return inv.Sell(req.Quantity, req.Note, now)
	})
}

// AdjustRequest 盘点
type AdjustRequest struct {
	BookID         uint
	StoreStock     int
	WarehouseStock int
	Note           string
}

// Adjust 盘点调整
func (uc *StockUseCase) Adjust(ctx context.Context, req AdjustRequest) (*InventoryDTO, error) {
	return uc.mutate(ctx, req.BookID, func(inv *inventory.Inventory, now time.Time) (*inventory.Movement, error) {
		return inv.Adjust(req.StoreStock, req.WarehouseStock, req.Note, now)
	})
}

// SettingsRequest 补货参数
type SettingsRequest struct {
	BookID          uint
	ReorderPoint    *int
	ReorderQuantity int
	LocationCode    string
}

// UpdateSettings 修改补货点、补货批量与库位（不产生流水）
func (uc *StockUseCase) UpdateSettings(ctx context.Context, req SettingsRequest) (*InventoryDTO, error) {
	var inv *inventory.Inventory
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		if inv, err = uc.inventories.FindByBookIDForUpdate(txCtx, req.BookID); err != nil {
			return err
		}
		if err := inv.UpdateSettings(req.ReorderPoint, req.ReorderQuantity, strings.TrimSpace(req.LocationCode)); err != nil {
			return err
		}
		return uc.inventories.Save(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.publishLowStock(ctx, inv, "SETTINGS", 0)
	return toDTO(inv, nil), nil
}

func (uc *StockUseCase) mutate(
	ctx context.Context,
	bookID uint,
	apply func(inv *inventory.Inventory, now time.Time) (*inventory.Movement, error),
) (*InventoryDTO, error) {
	var (
		inv      *inventory.Inventory
		movement *inventory.Movement
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		if inv, err = uc.inventories.FindByBookIDForUpdate(txCtx, bookID); err != nil {
			return err
		}
		if movement, err = apply(inv, uc.now()); err != nil {
			return err
		}
		if err := uc.inventories.Save(txCtx, inv); err != nil {
			return err
		}
		return uc.inventories.AppendMovements(txCtx, movement)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMoved(string(movement.Type), movement.Quantity)
	uc.logger.Info().
		Uint("book_id", bookID).
		Str("type", string(movement.Type)).
		Int("quantity", movement.Quantity).
		Int("store_stock", inv.StoreStock).
		Int("warehouse_stock", inv.WarehouseStock).
		Msg("库存变动")

	event.Publish(ctx, uc.publisher, event.InventoryChanged, event.NewStockEvent(inv, string(movement.Type), movement.Quantity, uc.now()))
	uc.publishLowStock(ctx, inv, string(movement.Type), movement.Quantity)
	return toDTO(inv, nil), nil
}

func (uc *StockUseCase) publishLowStock(ctx context.Context, inv *inventory.Inventory, movementType string, qty int) {
	if inv.Status() == inventory.StatusInStock {
		return
	}
	uc.logger.Warn().Uint("book_id", inv.BookID).Str("status", string(inv.Status())).Int("total_stock", inv.TotalStock()).Msg("库存不足预警")
	event.Publish(ctx, uc.publisher, event.InventoryLowStock, event.NewStockEvent(inv, movementType, qty, uc.now()))
}
