package dto

import "github.com/shopspring/decimal"

// CreateBookRequest 图书上架（同时创建库存行）
type CreateBookRequest struct {
	ISBN13          string          `json:"isbn13" binding:"required" example:"978-4-297-12345-6"`
	Title           string          `json:"title" binding:"required,max=255" example:"実践Go言語"`
	TitleEn         string          `json:"titleEn" binding:"max=255"`
	Publisher       string          `json:"publisher" binding:"max=100" example:"技術評論社"`
	PublicationDate string          `json:"publicationDate" example:"2024-04-01"`
	Edition         int             `json:"edition" binding:"omitempty,min=1"`
	ListPrice       decimal.Decimal `json:"listPrice" swaggertype:"number" example:"3300"`
	SellingPrice    decimal.Decimal `json:"sellingPrice" swaggertype:"number" example:"3300"`
	Pages           int             `json:"pages" binding:"omitempty,min=1"`
	Level           string          `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED" example:"INTERMEDIATE"`
	VersionInfo     string          `json:"versionInfo" binding:"max=100" example:"Go 1.22"`
	SampleCodeURL   string          `json:"sampleCodeUrl" binding:"omitempty,url"`
	Authors         []string        `json:"authors"`
	Categories      []string        `json:"categories" example:"GO"`

	StoreStock      int    `json:"storeStock" binding:"min=0"`
	WarehouseStock  int    `json:"warehouseStock" binding:"min=0"`
	ReorderPoint    *int   `json:"reorderPoint" binding:"omitempty,min=0"`
	ReorderQuantity int    `json:"reorderQuantity" binding:"min=0"`
	LocationCode    string `json:"locationCode" binding:"max=20" example:"A-01"`
}

// UpdateBookRequest 编辑图书，省略的字段保持不变；authors/categories为空时不修改
type UpdateBookRequest struct {
	Title           *string          `json:"title" binding:"omitempty,max=255"`
	TitleEn         *string          `json:"titleEn" binding:"omitempty,max=255"`
	Publisher       *string          `json:"publisher" binding:"omitempty,max=100"`
	PublicationDate *string          `json:"publicationDate"`
	Edition         *int             `json:"edition" binding:"omitempty,min=1"`
	ListPrice       *decimal.Decimal `json:"listPrice" swaggertype:"number"`
	SellingPrice    *decimal.Decimal `json:"sellingPrice" swaggertype:"number"`
	Pages           *int             `json:"pages" binding:"omitempty,min=1"`
	Level           *string          `json:"level" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	VersionInfo     *string          `json:"versionInfo" binding:"omitempty,max=100"`
	SampleCodeURL   *string          `json:"sampleCodeUrl" binding:"omitempty,url"`
	Authors         []string         `json:"authors"`
	Categories      []string         `json:"categories"`
}

// ListBooksQuery 图书列表条件
type ListBooksQuery struct {
	PageQuery
	Keyword  string `form:"keyword"`
	Level    string `form:"level" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Category string `form:"category"`
}

// CreateCategoryRequest 新建技术分类
type CreateCategoryRequest struct {
	Code       string `json:"code" binding:"required,max=50" example:"GO"`
	Name       string `json:"name" binding:"required,max=100" example:"Go言語"`
	ParentCode string `json:"parentCode" binding:"max=50" example:"PROGRAMMING"`
}
