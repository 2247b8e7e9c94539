package book

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
)

// BookDTO 图书详情
type BookDTO struct {
	ID              uint            `json:"id"`
	ISBN13          string          `json:"isbn13"`
	Title           string          `json:"title"`
	TitleEn         string          `json:"titleEn,omitempty"`
	Publisher       string          `json:"publisher,omitempty"`
	PublicationDate string          `json:"publicationDate,omitempty"`
	Edition         int             `json:"edition,omitempty"`
	ListPrice       decimal.Decimal `json:"listPrice"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	Pages           int             `json:"pages,omitempty"`
	Level           string          `json:"level"`
	VersionInfo     string          `json:"versionInfo,omitempty"`
	SampleCodeURL   string          `json:"sampleCodeUrl,omitempty"`
	Authors         []string        `json:"authors"`
	Categories      []string        `json:"categories"`
	Stock           *StockSummary   `json:"stock,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// StockSummary 图书详情中附带的库存概况
type StockSummary struct {
	StoreStock     int    `json:"storeStock"`
	WarehouseStock int    `json:"warehouseStock"`
	AvailableStock int    `json:"availableStock"`
	Status         string `json:"status"`
}

const timeLayout = "2006-01-02 15:04:05"

func toDTO(b *book.Book, inv *inventory.Inventory) *BookDTO {
	dto := &BookDTO{
		ID:            b.ID,
		ISBN13:        b.ISBN13,
		Title:         b.Title,
		TitleEn:       b.TitleEn,
		Publisher:     b.PublisherName(),
		Edition:       b.Edition,
		ListPrice:     b.ListPrice,
		SellingPrice:  b.SellingPrice,
		Pages:         b.Pages,
		Level:         string(b.Level),
		VersionInfo:   b.VersionInfo,
		SampleCodeURL: b.SampleCodeURL,
		Authors:       b.AuthorNames(),
		Categories:    b.CategoryCodes(),
		CreatedAt:     b.CreatedAt.Format(timeLayout),
		UpdatedAt:     b.UpdatedAt.Format(timeLayout),
	}
	if b.PublicationDate != nil {
		dto.PublicationDate = b.PublicationDate.Format(time.DateOnly)
	}
	if inv != nil {
		dto.Stock = &StockSummary{
			StoreStock:     inv.StoreStock,
			WarehouseStock: inv.WarehouseStock,
			AvailableStock: inv.AvailableStock(),
			Status:         string(inv.Status()),
		}
	}
	return dto
}
