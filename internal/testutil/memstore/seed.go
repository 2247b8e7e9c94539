package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
)

// SeedBook 写入一本图书及其库存，返回图书ID
func (s *Store) SeedBook(title string, sellingPrice int64, storeStock, warehouseStock int, reorderPoint *int) uint {
	ctx := context.Background()
	b := &book.Book{
		ISBN13:       isbnFor(s.nextID + 1),
		Title:        title,
		ListPrice:    decimal.NewFromInt(sellingPrice),
		SellingPrice: decimal.NewFromInt(sellingPrice),
		Level:        book.LevelBeginner,
	}
	if err := s.Books().Create(ctx, b); err != nil {
		panic(err)
	}
	inv, err := inventory.New(b.ID, storeStock, warehouseStock, reorderPoint, 10, inventory.LocationStore)
	if err != nil {
		panic(err)
	}
	if err := s.Inventories().Create(ctx, inv); err != nil {
		panic(err)
	}
	return b.ID
}

func isbnFor(n uint) string {
	const base = "9784000000000"
	digits := []byte(base)
	for i := len(digits) - 1; n > 0 && i >= 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}
