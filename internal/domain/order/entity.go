package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type 订单渠道
type Type string

const (
	TypeOnline Type = "ONLINE"
	TypeWalkIn Type = "WALK_IN"
	TypePhone  Type = "PHONE"
)

// Types 全部渠道
var Types = []Type{TypeOnline, TypeWalkIn, TypePhone}

func (t Type) IsValid() bool {
	switch t {
	case TypeOnline, TypeWalkIn, TypePhone:
		return true
	}
	return false
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCash            PaymentMethod = "CASH"
	PaymentCreditCard      PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer    PaymentMethod = "BANK_TRANSFER"
	PaymentElectronicMoney PaymentMethod = "ELECTRONIC_MONEY"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentBankTransfer, PaymentElectronicMoney:
		return true
	}
	return false
}

// Order 订单（聚合根）
type Order struct {
	ID            uint
	OrderNumber   string // ORD-yyyyMMdd-NNNN
	CustomerID    *uint  // 门店散客可为空
	Type          Type
	PaymentMethod PaymentMethod
	Status        Status
	OrderDate     time.Time
	ConfirmedDate *time.Time
	ShippedDate   *time.Time
	DeliveredDate *time.Time
	CancelledDate *time.Time
	Notes         string
	Items         []Item
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item 订单明细，UnitPrice为下单时的售价快照
type Item struct {
	ID         uint
	OrderID    uint
	BookID     uint
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// NewItem 创建明细（TotalPrice = UnitPrice × Quantity）
func NewItem(bookID uint, quantity int, unitPrice decimal.Decimal) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		BookID:     bookID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewOrder 创建待确认订单
func NewOrder(number string, customerID *uint, t Type, payment PaymentMethod, notes string, items []Item, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	if !t.IsValid() {
		return nil, ErrInvalidOrderType
	}
	if !payment.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	o := &Order{
		OrderNumber:   number,
		CustomerID:    customerID,
		Type:          t,
		PaymentMethod: payment,
		Status:        StatusPending,
		OrderDate:     now,
		Notes:         strings.TrimSpace(notes),
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.TotalAmount = o.CalculateTotal()
	return o, nil
}

// CalculateTotal 明细合计
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// Quantities 按图书合并明细数量
func (o *Order) Quantities() map[uint]int {
	q := make(map[uint]int, len(o.Items))
	for _, item := range o.Items {
		q[item.BookID] += item.Quantity
	}
	return q
}

// BookIDs 明细涉及的图书（去重）
func (o *Order) BookIDs() []uint {
	seen := make(map[uint]bool, len(o.Items))
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		if !seen[item.BookID] {
			seen[item.BookID] = true
			ids = append(ids, item.BookID)
		}
	}
	return ids
}

// TransitionTo 按状态表流转并记录对应时间
// 目标等于当前状态时不做任何修改，返回changed=false
func (o *Order) TransitionTo(target Status, now time.Time) (changed bool, err error) {
	if o.Status == target {
		return false, nil
	}
	if !CanTransition(o.Status, target) {
		return false, invalidTransition(o.Status, target)
	}

	o.Status = target
	o.UpdatedAt = now
	switch target {
	case StatusConfirmed:
		o.ConfirmedDate = &now
	case StatusShipped:
		o.ShippedDate = &now
	case StatusDelivered:
		o.DeliveredDate = &now
	case StatusCancelled:
		o.CancelledDate = &now
	}
	return true, nil
}
