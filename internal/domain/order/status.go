package order

// Status 订单状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPicking   Status = "PICKING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses 全部状态（状态统计按此顺序输出）
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusPicking,
	StatusShipped, StatusDelivered, StatusCancelled,
}

// transitions 状态流转表，未列出的目标一律非法
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPicking, StatusCancelled},
	StatusPicking:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// IsValid 是否为已定义的状态
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal 终态（已送达、已取消）
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// HoldsStock 该状态下订单已扣减门店库存且尚未出库，取消时需要归还
func (s Status) HoldsStock() bool {
	return s == StatusConfirmed || s == StatusPicking
}

// CanTransition from → to 是否在流转表中（同状态不算流转）
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStatuses 当前状态允许的目标状态
func NextStatuses(from Status) []Status {
	next := make([]Status, len(transitions[from]))
	copy(next, transitions[from])
	return next
}
