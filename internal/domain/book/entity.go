package book

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// TechLevel 技术难度
type TechLevel string

const (
	LevelBeginner     TechLevel = "BEGINNER"
	LevelIntermediate TechLevel = "INTERMEDIATE"
	LevelAdvanced     TechLevel = "ADVANCED"
)

// Levels 全部难度（报表按此顺序输出）
var Levels = []TechLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// IsValid 是否为合法难度
func (l TechLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// UncategorizedCode 未分类图书在报表中的分类编码
const UncategorizedCode = "UNCATEGORIZED"

// Publisher 出版社
type Publisher struct {
	ID   uint
	Name string
}

// Author 作者
type Author struct {
	ID   uint
	Name string
}

// Category 技术分类（如 GO、JAVA、CLOUD），可有一级父分类
type Category struct {
	ID         uint
	Code       string
	Name       string
	ParentCode string
}

// Book 图书（聚合根）
// 价格保留两位小数；库存由inventory聚合管理
type Book struct {
	ID              uint
	ISBN13          string
	Title           string
	TitleEn         string
	Publisher       *Publisher
	PublicationDate *time.Time
	Edition         int
	ListPrice       decimal.Decimal // 定价
	SellingPrice    decimal.Decimal // 售价（下单时快照到订单明细）
	Pages           int
	Level           TechLevel
	VersionInfo     string // 书中技术的版本，如 "Go 1.22"
	SampleCodeURL   string
	Authors         []Author
	Categories      []Category
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NormalizeISBN 去掉分隔符后必须是13位数字
func NormalizeISBN(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == '-' || r == ' ':
			continue
		case unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			return "", ErrInvalidISBN
		}
	}
	if b.Len() != 13 {
		return "", ErrInvalidISBN
	}
	return b.String(), nil
}

// Validate 校验图书字段
func (b *Book) Validate() error {
	isbn, err := NormalizeISBN(b.ISBN13)
	if err != nil {
		return err
	}
	b.ISBN13 = isbn

	if strings.TrimSpace(b.Title) == "" {
		return ErrInvalidTitle
	}
	if !b.SellingPrice.IsPositive() || b.ListPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if b.Level == "" {
		b.Level = LevelBeginner
	}
	if !b.Level.IsValid() {
		return ErrInvalidLevel
	}
	if b.Pages < 0 || b.Edition < 0 {
		return ErrInvalidParams
	}
	return nil
}

// PrimaryCategory 报表归类用的分类编码（第一个分类，无分类时为UNCATEGORIZED）
func (b *Book) PrimaryCategory() string {
	if len(b.Categories) == 0 {
		return UncategorizedCode
	}
	return b.Categories[0].Code
}

// CategoryCodes 分类编码列表
func (b *Book) CategoryCodes() []string {
	codes := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		codes[i] = c.Code
	}
	return codes
}

// AuthorNames 作者姓名列表
func (b *Book) AuthorNames() []string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.Name
	}
	return names
}

// PublisherName 出版社名称（未设置时为空串）
func (b *Book) PublisherName() string {
	if b.Publisher == nil {
		return ""
	}
	return b.Publisher.Name
}

// Update 管理员编辑：nil字段保持不变
type Update struct {
	Title           *string
	TitleEn         *string
	PublisherName   *string
	PublicationDate *time.Time
	Edition         *int
	ListPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	Pages           *int
	Level           *TechLevel
	VersionInfo     *string
	SampleCodeURL   *string
	AuthorNames     []string // nil不变，空切片清空
	CategoryCodes   []string
}

// Apply 应用编辑并重新校验
func (b *Book) Apply(u Update) error {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.TitleEn != nil {
		b.TitleEn = *u.TitleEn
	}
	if u.PublisherName != nil {
		b.Publisher = &Publisher{Name: *u.PublisherName}
	}
	if u.PublicationDate != nil {
		b.PublicationDate = u.PublicationDate
	}
	if u.Edition != nil {
		b.Edition = *u.Edition
	}
	if u.ListPrice != nil {
		b.ListPrice = *u.ListPrice
	}
	if u.SellingPrice != nil {
		b.SellingPrice = *u.SellingPrice
	}
	if u.Pages != nil {
		b.Pages = *u.Pages
	}
	if u.Level != nil {
		b.Level = *u.Level
	}
	if u.VersionInfo != nil {
		b.VersionInfo = *u.VersionInfo
	}
	if u.SampleCodeURL != nil {
		b.SampleCodeURL = *u.SampleCodeURL
	}
	if u.AuthorNames != nil {
		b.Authors = AuthorsFromNames(u.AuthorNames)
	}
	if u.CategoryCodes != nil {
		b.Categories = CategoriesFromCodes(u.CategoryCodes)
	}
	b.UpdatedAt = time.Now()
	return b.Validate()
}

// AuthorsFromNames 按姓名构造作者（去空、去重，保持顺序）
func AuthorsFromNames(names []string) []Author {
	seen := make(map[string]bool, len(names))
	authors := make([]Author, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		authors = append(authors, Author{Name: n})
	}
	return authors
}

// CategoriesFromCodes 按编码构造分类引用（编码统一大写）
func CategoriesFromCodes(codes []string) []Category {
	seen := make(map[string]bool, len(codes))
	cats := make([]Category, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cats = append(cats, Category{Code: c})
	}
	return cats
}
