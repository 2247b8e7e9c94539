package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 金额统一使用DECIMAL(12,2)，避免浮点误差

type PublisherModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:200;not null;comment:出版社名称"`
	CreatedAt time.Time
}

func (PublisherModel) TableName() string { return "publishers" }

type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null;comment:作者姓名"`
	CreatedAt time.Time
}

func (AuthorModel) TableName() string { return "authors" }

type CategoryModel struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"uniqueIndex;size:50;not null;comment:分类编码"`
	Name       string `gorm:"size:100;not null;comment:分类名称"`
	ParentCode string `gorm:"size:50;comment:父分类编码"`
	CreatedAt  time.Time
}

func (CategoryModel) TableName() string { return "tech_categories" }

// BookModel 图书；ISBN唯一索引包含已软删除的记录
type BookModel struct {
	ID              uint            `gorm:"primaryKey"`
	ISBN13          string          `gorm:"column:isbn13;uniqueIndex;size:13;not null;comment:ISBN-13"`
	Title           string          `gorm:"index;size:300;not null;comment:书名"`
	TitleEn         string          `gorm:"size:300;comment:英文书名"`
	PublisherID     *uint           `gorm:"index;comment:出版社ID"`
	Publisher       *PublisherModel `gorm:"foreignKey:PublisherID"`
	PublicationDate *time.Time      `gorm:"comment:出版日期"`
	Edition         int             `gorm:"default:1;comment:版次"`
	ListPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:定价"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:售价"`
	Pages           int             `gorm:"comment:页数"`
	Level           string          `gorm:"index;size:20;not null;comment:技术难度"`
	VersionInfo     string          `gorm:"size:100;comment:技术版本"`
	SampleCodeURL   string          `gorm:"column:sample_code_url;size:500;comment:示例代码地址"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string { return "books" }

// BookAuthorModel 图书-作者，Position保持作者顺序
type BookAuthorModel struct {
	BookID   uint `gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint `gorm:"primaryKey;autoIncrement:false"`
	Position int  `gorm:"not null;default:0"`
}

func (BookAuthorModel) TableName() string { return "book_authors" }

// BookCategoryModel 图书-分类，Position为0的是主分类
type BookCategoryModel struct {
	BookID     uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index"`
	Position   int  `gorm:"not null;default:0"`
}

func (BookCategoryModel) TableName() string { return "book_categories" }

type InventoryModel struct {
	ID               uint       `gorm:"primaryKey"`
	BookID           uint       `gorm:"uniqueIndex;not null;comment:图书ID"`
	StoreStock       int        `gorm:"not null;default:0;comment:门店库存"`
	WarehouseStock   int        `gorm:"not null;default:0;comment:仓库库存"`
	ReservedCount    int        `gorm:"not null;default:0;comment:预留数量"`
	LocationCode     string     `gorm:"size:50;comment:货架位置"`
	ReorderPoint     *int       `gorm:"comment:补货点"`
	ReorderQuantity  int        `gorm:"not null;default:0;comment:补货批量"`
	LastReceivedDate *time.Time `gorm:"comment:最后入库时间"`
	LastSoldDate     *time.Time `gorm:"comment:最后销售时间"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (InventoryModel) TableName() string { return "inventories" }

// InventoryTransactionModel 库存流水，只追加
type InventoryTransactionModel struct {
	ID              uint      `gorm:"primaryKey"`
	BookID          uint      `gorm:"index:idx_inv_tx_book_time;not null"`
	Type            string    `gorm:"size:20;not null;comment:流水类型"`
	Quantity        int       `gorm:"not null;comment:总库存变化量"`
	StoreBefore     int       `gorm:"not null"`
	StoreAfter      int       `gorm:"not null"`
	WarehouseBefore int       `gorm:"not null"`
	WarehouseAfter  int       `gorm:"not null"`
	OrderID         *uint     `gorm:"index"`
	Note            string    `gorm:"size:500"`
	CreatedAt       time.Time `gorm:"index:idx_inv_tx_book_time"`
}

func (InventoryTransactionModel) TableName() string { return "inventory_transactions" }

type CustomerModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"index;size:100;not null"`
	NameKana     string `gorm:"size:100"`
	Email        string `gorm:"index;size:200"`
	Phone        string `gorm:"size:30"`
	CompanyName  string `gorm:"size:200"`
	Department   string `gorm:"size:100"`
	CustomerType string `gorm:"index;size:20;not null"`
	Status       string `gorm:"index;size:20;not null"`
	TechLevel    string `gorm:"size:20"`
	Notes        string `gorm:"size:1000"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CustomerModel) TableName() string { return "customers" }

type OrderModel struct {
	ID            uint      `gorm:"primaryKey"`
	OrderNumber   string    `gorm:"uniqueIndex;size:20;not null;comment:订单号"`
	CustomerID    *uint     `gorm:"index;comment:顾客ID"`
	Type          string    `gorm:"index;size:20;not null;comment:渠道"`
	PaymentMethod string    `gorm:"size:30;not null;comment:支付方式"`
	Status        string    `gorm:"index;size:20;not null;comment:状态"`
	OrderDate     time.Time `gorm:"index;not null;comment:下单时间"`
	ConfirmedDate *time.Time
	ShippedDate   *time.Time
	DeliveredDate *time.Time
	CancelledDate *time.Time
	Notes         string           `gorm:"size:1000"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(12,2);not null;comment:订单总额"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细，UnitPrice为下单时的售价快照
type OrderItemModel struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uint            `gorm:"index;not null"`
	BookID     uint            `gorm:"index;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItemModel) TableName() string { return "order_items" }

type OptimalStockSettingsModel struct {
	BookID           uint            `gorm:"primaryKey;autoIncrement:false"`
	LeadTimeDays     int             `gorm:"not null"`
	SafetyStockDays  int             `gorm:"not null"`
	ReviewPeriodDays int             `gorm:"not null"`
	CostRatio        decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	MinStock         int             `gorm:"not null;default:0"`
	MaxStock         *int
	UpdatedAt        time.Time
}

func (OptimalStockSettingsModel) TableName() string { return "optimal_stock_settings" }

type StaffModel struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string `gorm:"size:255;not null;comment:密码（bcrypt）"`
	Name      string `gorm:"size:50;not null"`
	Role      string `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StaffModel) TableName() string { return "staff" }

// ReportModel 已保存的报表，Content为报表JSON
type ReportModel struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Name       string            `gorm:"size:200;not null"`
	ReportType string            `gorm:"index;size:50;not null"`
	Status     string            `gorm:"size:20;not null"`
	Parameters map[string]string `gorm:"serializer:json;type:text"`
	StartDate  *time.Time
	EndDate    *time.Time
	Content    string
	CreatedBy  string    `gorm:"size:100"`
	CreatedAt  time.Time `gorm:"index"`
}

func (ReportModel) TableName() string { return "reports" }

type ReportTemplateModel struct {
	ID                 uint     `gorm:"primaryKey"`
	Code               string   `gorm:"uniqueIndex;size:100;not null"`
	Name               string   `gorm:"size:200;not null"`
	Description        string   `gorm:"size:500"`
	ReportType         string   `gorm:"size:50;not null"`
	Parameters         []string `gorm:"serializer:json;type:text"`
	VisualizationTypes []string `gorm:"serializer:json;type:text"`
	CreatedAt          time.Time
}

func (ReportTemplateModel) TableName() string { return "report_templates" }
