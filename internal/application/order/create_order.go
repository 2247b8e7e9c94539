package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/application/event"
	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/domain/tx"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/mq"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

// orderNumberAttempts 订单号冲突时的重试次数
const orderNumberAttempts = 3

const tracerName = "techbookstore/application/order"

// CreateOrderUseCase 创建订单
// 下单只快照售价、生成订单号，不占用库存；库存在确认时扣减
type CreateOrderUseCase struct {
	orders    order.Repository
	books     book.Repository
	customers customer.Repository
	txManager tx.Manager
	publisher mq.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orders order.Repository,
	books book.Repository,
	customers customer.Repository,
	txManager tx.Manager,
	publisher mq.Publisher,
	logger zerolog.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orders:    orders,
		books:     books,
		customers: customers,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With().Str("usecase", "create_order").Logger(),
		now:       time.Now,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CustomerID    *uint
	Type          string
	PaymentMethod string
	Notes         string
	Items         []CreateOrderItem
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (resp *OrderDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder")
	defer func() { tracing.End(span, err) }()

	orderType := order.Type(strings.ToUpper(req.Type))
	payment := order.PaymentMethod(strings.ToUpper(req.PaymentMethod))
	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}
	if !orderType.IsValid() {
		return nil, order.ErrInvalidOrderType
	}
	if !payment.IsValid() {
		return nil, order.ErrInvalidPaymentMethod
	}

	if req.CustomerID != nil {
		c, err := uc.customers.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if c.IsDeleted() {
			return nil, customer.ErrCustomerNotFound
		}
	}

	// 使用数据库中的当前售价，不信任客户端价格
	items, titles, err := uc.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var created *order.Order
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		created, err = uc.create(ctx, req, orderType, payment, items, int64(attempt))
		if !errors.Is(err, order.ErrOrderNumberConflict) {
			break
		}
		uc.logger.Warn().Int("attempt", attempt+1).Msg("订单号冲突，重试")
	}
	if err != nil {
		return nil, err
	}

	metrics.OrderCreated(string(created.Type))
	uc.logger.Info().
		Uint("order_id", created.ID).
		Str("order_number", created.OrderNumber).
		Str("total_amount", created.TotalAmount.String()).
		Int("items", len(created.Items)).
		Msg("订单已创建")

	event.Publish(ctx, uc.publisher, event.OrderCreated, orderEvent(created, "", uc.now()))
	return toDTO(created, titles), nil
}

func (uc *CreateOrderUseCase) priceItems(ctx context.Context, reqItems []CreateOrderItem) ([]order.Item, map[uint]string, error) {
	ids := make([]uint, 0, len(reqItems))
	for _, it := range reqItems {
		if it.Quantity <= 0 {
			return nil, nil, order.ErrInvalidQuantity
		}
		ids = append(ids, it.BookID)
	}

	found, err := uc.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]*book.Book, len(found))
	titles := make(map[uint]string, len(found))
	for _, b := range found {
		byID[b.ID] = b
		titles[b.ID] = b.Title
	}

	items := make([]order.Item, 0, len(reqItems))
	for _, it := range reqItems {
		b, ok := byID[it.BookID]
		if !ok {
			return nil, nil, book.ErrBookNotFound.WithMessage(fmt.Sprintf("图书不存在: %d", it.BookID))
		}
		item, err := order.NewItem(b.ID, it.Quantity, b.SellingPrice)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, titles, nil
}

func (uc *CreateOrderUseCase) create(
	ctx context.Context,
	req CreateOrderRequest,
	orderType order.Type,
	payment order.PaymentMethod,
	items []order.Item,
	offset int64,
) (*order.Order, error) {
	var created *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		count, err := uc.orders.Count(txCtx)
		if err != nil {
			return err
		}
		now := uc.now()
		o, err := order.NewOrder(order.FormatOrderNumber(now, count+offset), req.CustomerID, orderType, payment, req.Notes, append([]order.Item(nil), items...), now)
		if err != nil {
			return err
		}
		if err := uc.orders.Create(txCtx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	return created, err
}

func orderEvent(o *order.Order, from order.Status, now time.Time) event.OrderEvent {
	return event.OrderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        string(from),
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.String(),
		BookIDs:     o.BookIDs(),
		OccurredAt:  now,
	}
}
