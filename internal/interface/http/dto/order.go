package dto

// CreateOrderRequest 下单
type CreateOrderRequest struct {
	CustomerID    *uint              `json:"customerId"`
	Type          string             `json:"type" binding:"required,oneof=ONLINE WALK_IN PHONE" example:"WALK_IN"`
	PaymentMethod string             `json:"paymentMethod" binding:"required,oneof=CASH CREDIT_CARD BANK_TRANSFER ELECTRONIC_MONEY" example:"CASH"`
	Notes         string             `json:"notes" binding:"max=500"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest 订单明细
type OrderItemRequest struct {
	BookID   uint `json:"bookId" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"3"`
}

// UpdateStatusRequest 推进订单状态
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED PICKING SHIPPED DELIVERED CANCELLED" example:"PICKING"`
}

// ListOrdersQuery 订单列表条件
type ListOrdersQuery struct {
	PageQuery
	SortBy     string `form:"sortBy" binding:"omitempty,oneof=orderDate totalAmount orderNumber"`
	SortDir    string `form:"sortDir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Status     string `form:"status"`
	Type       string `form:"type"`
	CustomerID *uint  `form:"customerId"`
	StartDate  string `form:"startDate" example:"2024-04-01"`
	EndDate    string `form:"endDate" example:"2024-04-30"`
	Keyword    string `form:"keyword"`
}
