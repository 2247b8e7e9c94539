package order

import (
	"fmt"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrOrderNotFound           = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrOrderNotPending         = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "Order is not in PENDING status")
	ErrInvalidOrderItems       = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")
	ErrInvalidQuantity         = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
	ErrInvalidOrderType        = apperrors.New(apperrors.ErrCodeInvalidParams, "订单类型必须是ONLINE、WALK_IN或PHONE")
	ErrInvalidPaymentMethod    = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")
	ErrInvalidStatus           = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订单状态")
	ErrOrderNumberConflict     = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突")
)

func invalidTransition(from, to Status) error {
	return ErrInvalidStatusTransition.WithMessage(fmt.Sprintf("订单状态不能从%s变更为%s", from, to))
}
