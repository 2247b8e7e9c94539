package inventory

import (
	"context"
	"time"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
)

// InventoryDTO 库存视图（含派生字段）
type InventoryDTO struct {
	ID               uint    `json:"id"`
	BookID           uint    `json:"bookId"`
	Title            string  `json:"title,omitempty"`
	ISBN13           string  `json:"isbn13,omitempty"`
	StoreStock       int     `json:"storeStock"`
	WarehouseStock   int     `json:"warehouseStock"`
	ReservedCount    int     `json:"reservedCount"`
	AvailableStock   int     `json:"availableStock"`
	TotalStock       int     `json:"totalStock"`
	LocationCode     string  `json:"locationCode,omitempty"`
	ReorderPoint     *int    `json:"reorderPoint"`
	ReorderQuantity  int     `json:"reorderQuantity"`
	IsLowStock       bool    `json:"isLowStock"`
	IsOutOfStock     bool    `json:"isOutOfStock"`
	Status           string  `json:"status"`
	LastReceivedDate *string `json:"lastReceivedDate"`
	LastSoldDate     *string `json:"lastSoldDate"`
	UpdatedAt        string  `json:"updatedAt"`
}

// MovementDTO 库存流水
type MovementDTO struct {
	ID              uint   `json:"id"`
	BookID          uint   `json:"bookId"`
	Type            string `json:"type"`
	Quantity        int    `json:"quantity"`
	StoreBefore     int    `json:"storeBefore"`
	StoreAfter      int    `json:"storeAfter"`
	WarehouseBefore int    `json:"warehouseBefore"`
	WarehouseAfter  int    `json:"warehouseAfter"`
	OrderID         *uint  `json:"orderId,omitempty"`
	Note            string `json:"note,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func toDTO(inv *inventory.Inventory, b *book.Book) *InventoryDTO {
	dto := &InventoryDTO{
		ID:               inv.ID,
		BookID:           inv.BookID,
		StoreStock:       inv.StoreStock,
		WarehouseStock:   inv.WarehouseStock,
		ReservedCount:    inv.ReservedCount,
		AvailableStock:   inv.AvailableStock(),
		TotalStock:       inv.TotalStock(),
		LocationCode:     inv.LocationCode,
		ReorderPoint:     inv.ReorderPoint,
		ReorderQuantity:  inv.ReorderQuantity,
		IsLowStock:       inv.IsLowStock(),
		IsOutOfStock:     inv.IsOutOfStock(),
		Status:           string(inv.Status()),
		LastReceivedDate: formatTime(inv.LastReceivedDate),
		LastSoldDate:     formatTime(inv.LastSoldDate),
		UpdatedAt:        inv.UpdatedAt.Format(timeLayout),
	}
	if b != nil {
		dto.Title = b.Title
		dto.ISBN13 = b.ISBN13
	}
	return dto
}

func toMovementDTO(m *inventory.Movement) MovementDTO {
	return MovementDTO{
		ID:              m.ID,
		BookID:          m.BookID,
		Type:            string(m.Type),
		Quantity:        m.Quantity,
		StoreBefore:     m.StoreBefore,
		StoreAfter:      m.StoreAfter,
		WarehouseBefore: m.WarehouseBefore,
		WarehouseAfter:  m.WarehouseAfter,
		OrderID:         m.OrderID,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt.Format(timeLayout),
	}
}

// withTitles 批量补齐书名
func withTitles(ctx context.Context, books book.Repository, rows []*inventory.Inventory) ([]*InventoryDTO, error) {
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.BookID
	}
	found, err := books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*book.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	out := make([]*InventoryDTO, len(rows))
	for i, r := range rows {
		out[i] = toDTO(r, byID[r.BookID])
	}
	return out, nil
}
