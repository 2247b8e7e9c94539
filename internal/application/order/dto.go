package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/order"
)

// OrderDTO 订单详情
type OrderDTO struct {
	ID            uint            `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    *uint           `json:"customerId"`
	Type          string          `json:"type"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	NextStatuses  []string        `json:"nextStatuses"`
	OrderDate     string          `json:"orderDate"`
	ConfirmedDate *string         `json:"confirmedDate"`
	ShippedDate   *string         `json:"shippedDate"`
	DeliveredDate *string         `json:"deliveredDate"`
	CancelledDate *string         `json:"cancelledDate"`
	Notes         string          `json:"notes,omitempty"`
	Items         []ItemDTO       `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// ItemDTO 订单明细
type ItemDTO struct {
	ID         uint            `json:"id"`
	BookID     uint            `json:"bookId"`
	Title      string          `json:"title,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func toDTO(o *order.Order, titles map[uint]string) *OrderDTO {
	next := order.NextStatuses(o.Status)
	nextNames := make([]string, len(next))
	for i, s := range next {
		nextNames[i] = string(s)
	}

	items := make([]ItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemDTO{
			ID:         it.ID,
			BookID:     it.BookID,
			Title:      titles[it.BookID],
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}

	return &OrderDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Type:          string(o.Type),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		NextStatuses:  nextNames,
		OrderDate:     o.OrderDate.Format(timeLayout),
		ConfirmedDate: formatTime(o.ConfirmedDate),
		ShippedDate:   formatTime(o.ShippedDate),
		DeliveredDate: formatTime(o.DeliveredDate),
		CancelledDate: formatTime(o.CancelledDate),
		Notes:         o.Notes,
		Items:         items,
		TotalAmount:   o.TotalAmount,
	}
}
