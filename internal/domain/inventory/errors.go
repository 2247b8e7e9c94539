package inventory

import (
	"fmt"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrInventoryNotFound = apperrors.New(apperrors.ErrCodeInventoryNotFound, "库存记录不存在")
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
	ErrInvalidQuantity   = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	ErrNegativeStock     = apperrors.New(apperrors.ErrCodeInvalidParams, "库存数量不能为负数")
)

func insufficient(bookID uint, available, requested int) error {
	return ErrInsufficientStock.WithMessage(
		fmt.Sprintf("库存不足: 图书%d 可用%d，需要%d", bookID, available, requested))
}
