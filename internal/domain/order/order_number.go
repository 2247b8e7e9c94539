package order

import (
	"fmt"
	"time"
)

// FormatOrderNumber 订单号：ORD-yyyyMMdd-NNNN，NNNN为已有订单总数+1（不足4位补零）
func FormatOrderNumber(date time.Time, existingOrders int64) string {
	return fmt.Sprintf("ORD-%s-%04d", date.Format("20060102"), existingOrders+1)
}
