package inventory

import (
	"fmt"
	"sort"
	"time"
)

// ReserveAll 订单确认的全量预留
// 先校验全部图书的可用库存，全部满足后才扣减；任一不足时不修改任何一行
// quantities：bookID → 数量（同一图书的多条明细已合并）
func ReserveAll(rows []*Inventory, quantities map[uint]int, orderID uint, now time.Time) ([]*Movement, error) {
	byBook, err := index(rows, quantities)
	if err != nil {
		return nil, err
	}

	ids := sortedIDs(quantities)
	for _, id := range ids {
		inv := byBook[id]
		if !inv.CanFulfill(quantities[id]) {
			return nil, insufficient(id, inv.AvailableStock(), quantities[id])
		}
	}

	movements := make([]*Movement, 0, len(ids))
	for _, id := range ids {
		m, err := byBook[id].Reserve(quantities[id], orderID, now)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// ReleaseAll 订单取消时归还全部明细的门店库存
func ReleaseAll(rows []*Inventory, quantities map[uint]int, orderID uint, now time.Time) ([]*Movement, error) {
	byBook, err := index(rows, quantities)
	if err != nil {
		return nil, err
	}

	movements := make([]*Movement, 0, len(quantities))
	for _, id := range sortedIDs(quantities) {
		m, err := byBook[id].Release(quantities[id], orderID, now)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func index(rows []*Inventory, quantities map[uint]int) (map[uint]*Inventory, error) {
	byBook := make(map[uint]*Inventory, len(rows))
	for _, r := range rows {
		byBook[r.BookID] = r
	}
	for id, qty := range quantities {
		if qty <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, ok := byBook[id]; !ok {
			return nil, ErrInventoryNotFound.WithMessage(fmt.Sprintf("图书%d没有库存记录", id))
		}
	}
	return byBook, nil
}

func sortedIDs(quantities map[uint]int) []uint {
	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}
