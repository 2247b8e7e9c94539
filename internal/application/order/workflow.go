package order

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/application/event"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/mq"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

// WorkflowUseCase 订单状态流转：确认（扣减库存）、拣货/发货/签收、取消（归还库存）
type WorkflowUseCase struct {
	orders      order.Repository
	inventories inventory.Repository
	txManager   tx.Manager
	publisher   mq.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewWorkflowUseCase 创建状态流转用例
func NewWorkflowUseCase(
	orders order.Repository,
	inventories inventory.Repository,
	txManager tx.Manager,
	publisher mq.Publisher,
	logger zerolog.Logger,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		orders:      orders,
		inventories: inventories,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger.With().Str("usecase", "order_workflow").Logger(),
		now:         time.Now,
	}
}

// Confirm 确认订单（只允许PENDING）
//
// 全部或全不：
//  1. 按book_id升序锁定订单涉及的全部库存行
//  2. 合并同一图书的明细后逐一校验可用库存
//  3. 全部满足才扣减门店库存并写流水；任一失败整个事务回滚
func (uc *WorkflowUseCase) Confirm(ctx context.Context, orderID uint) (resp *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ConfirmOrder")
	defer func() { tracing.End(span, err) }()

	start := time.Now()
	var (
		confirmed *order.Order
		reserved  []*inventory.Inventory
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if o.Status != order.StatusPending {
			return order.ErrOrderNotPending
		}
		if reserved, err = uc.reserve(txCtx, o); err != nil {
			return err
		}
		if _, err := o.TransitionTo(order.StatusConfirmed, uc.now()); err != nil {
			return err
		}
		if err := uc.orders.Update(txCtx, o); err != nil {
			return err
		}
		confirmed = o
		return nil
	})
	if err != nil {
		metrics.OrderConfirmFailed(confirmFailureReason(err))
		uc.logger.Warn().Err(err).Uint("order_id", orderID).Msg("订单确认失败")
		return nil, err
	}

	metrics.ObserveOrderConfirm(time.Since(start))
	metrics.OrderTransitioned(string(order.StatusPending), string(order.StatusConfirmed))
	uc.logger.Info().Uint("order_id", confirmed.ID).Str("order_number", confirmed.OrderNumber).Msg("订单已确认")
	event.Publish(ctx, uc.publisher, event.OrderConfirmed, orderEvent(confirmed, order.StatusPending, uc.now()))
	uc.publishLowStock(ctx, reserved, confirmed.Quantities())
	return toDTO(confirmed, nil), nil
}

// Cancel 取消订单（PENDING、CONFIRMED、PICKING）
// 已扣减库存的订单在同一事务内归还门店库存
func (uc *WorkflowUseCase) Cancel(ctx context.Context, orderID uint) (resp *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CancelOrder")
	defer func() { tracing.End(span, err) }()

	var (
		cancelled *order.Order
		from      order.Status
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		if !order.CanTransition(from, order.StatusCancelled) {
			return order.ErrInvalidStatusTransition.WithMessage("订单状态为" + string(from) + "，不能取消")
		}
		if from.HoldsStock() {
			if err := uc.release(txCtx, o); err != nil {
				return err
			}
		}
		if _, err := o.TransitionTo(order.StatusCancelled, uc.now()); err != nil {
			return err
		}
		if err := uc.orders.Update(txCtx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitioned(string(from), string(order.StatusCancelled))
	uc.logger.Info().
		Uint("order_id", cancelled.ID).
		Str("from", string(from)).
		Bool("stock_released", from.HoldsStock()).
		Msg("订单已取消")
	event.Publish(ctx, uc.publisher, event.OrderCancelled, orderEvent(cancelled, from, uc.now()))
	return toDTO(cancelled, nil), nil
}

// UpdateStatus 按状态表推进订单
// 目标为CONFIRMED、CANCELLED时分别走确认、取消流程；与当前状态相同时原样返回
func (uc *WorkflowUseCase) UpdateStatus(ctx context.Context, orderID uint, target string) (resp *OrderDTO, err error) {
	status := order.Status(strings.ToUpper(strings.TrimSpace(target)))
	if !status.IsValid() {
		return nil, order.ErrInvalidStatus
	}

	current, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return toDTO(current, nil), nil
	}

	switch status {
	case order.StatusConfirmed:
		if current.Status != order.StatusPending {
			return nil, order.ErrInvalidStatusTransition.WithMessage("订单状态不能从" + string(current.Status) + "变更为CONFIRMED")
		}
		return uc.Confirm(ctx, orderID)
	case order.StatusCancelled:
		return uc.Cancel(ctx, orderID)
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateOrderStatus")
	defer func() { tracing.End(span, err) }()

	var (
		updated *order.Order
		from    order.Status
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		changed, err := o.TransitionTo(status, uc.now())
		if err != nil {
			return err
		}
		if changed {
			if err := uc.orders.Update(txCtx, o); err != nil {
				return err
			}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != updated.Status {
		metrics.OrderTransitioned(string(from), string(updated.Status))
		uc.logger.Info().Uint("order_id", updated.ID).Str("from", string(from)).Str("to", string(updated.Status)).Msg("订单状态变更")
		event.Publish(ctx, uc.publisher, event.OrderStatusChanged, orderEvent(updated, from, uc.now()))
	}
	return toDTO(updated, nil), nil
}

func (uc *WorkflowUseCase) reserve(ctx context.Context, o *order.Order) ([]*inventory.Inventory, error) {
	rows, err := uc.inventories.LockByBookIDs(ctx, o.BookIDs())
	if err != nil {
		return nil, err
	}
	movements, err := inventory.ReserveAll(rows, o.Quantities(), o.ID, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.persist(ctx, rows, movements); err != nil {
		return nil, err
	}
	return rows, nil
}

// publishLowStock 确认后跌破补货点或售罄的库存行逐一预警
func (uc *WorkflowUseCase) publishLowStock(ctx context.Context, rows []*inventory.Inventory, quantities map[uint]int) {
	for _, inv := range rows {
		if inv.Status() == inventory.StatusInStock {
			continue
		}
		uc.logger.Warn().Uint("book_id", inv.BookID).Str("status", string(inv.Status())).Int("total_stock", inv.TotalStock()).Msg("库存不足预警")
		event.Publish(ctx, uc.publisher, event.InventoryLowStock,
			event.NewStockEvent(inv, string(inventory.MovementReserve), quantities[inv.BookID], uc.now()))
	}
}

func (uc *WorkflowUseCase) release(ctx context.Context, o *order.Order) error {
	rows, err := uc.inventories.LockByBookIDs(ctx, o.BookIDs())
	if err != nil {
		return err
	}
	movements, err := inventory.ReleaseAll(rows, o.Quantities(), o.ID, uc.now())
	if err != nil {
		return err
	}
	return uc.persist(ctx, rows, movements)
}

func (uc *WorkflowUseCase) persist(ctx context.Context, rows []*inventory.Inventory, movements []*inventory.Movement) error {
	for _, inv := range rows {
		if err := uc.inventories.Save(ctx, inv); err != nil {
			return err
		}
	}
	if err := uc.inventories.AppendMovements(ctx, movements...); err != nil {
		return err
	}
	for _, m := range movements {
		metrics.StockMoved(string(m.Type), m.Quantity)
	}
	return nil
}

func confirmFailureReason(err error) string {
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case apperrors.ErrCodeInvalidOrderStatus:
		return "invalid_status"
	case apperrors.ErrCodeOrderNotFound:
		return "not_found"
	case apperrors.ErrCodeInventoryNotFound:
		return "no_inventory"
	default:
		return "error"
	}
}
