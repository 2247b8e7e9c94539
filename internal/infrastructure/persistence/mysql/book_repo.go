package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// bookRepository 图书仓储
// 出版社、作者按名称查找或创建；分类只引用已存在的编码
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model, err := r.toModel(tx, b)
		if err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return book.ErrISBNDuplicate
			}
			return apperrors.Wrap(err, "创建图书失败")
		}
		b.ID = model.ID
		b.CreatedAt, b.UpdatedAt = model.CreatedAt, model.UpdatedAt
		return r.replaceAssociations(tx, b)
	})
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).Preload("Publisher").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	books, err := r.hydrate(dbFrom(ctx, r.db), []BookModel{model})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}
	var models []BookModel
	if err := dbFrom(ctx, r.db).Preload("Publisher").Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return r.hydrate(dbFrom(ctx, r.db), models)
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn13 string) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).Preload("Publisher").Where("isbn13 = ?", isbn13).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	books, err := r.hydrate(dbFrom(ctx, r.db), []BookModel{model})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model, err := r.toModel(tx, b)
		if err != nil {
			return err
		}
		result := tx.Model(&BookModel{ID: b.ID}).Select("*").Omit("id", "created_at", "deleted_at", "Publisher").Updates(model)
		if result.Error != nil {
			if isDuplicateError(result.Error) {
				return book.ErrISBNDuplicate
			}
			return apperrors.Wrap(result.Error, "更新图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return r.replaceAssociations(tx, b)
	})
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db := dbFrom(ctx, r.db)
	query := db.Model(&BookModel{})

	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		like := likePattern(kw)
		query = query.Where("title LIKE ? OR title_en LIKE ? OR isbn13 LIKE ?", like, like, like)
	}
	if params.Level != "" {
		query = query.Where("level = ?", string(params.Level))
	}
	if params.CategoryCode != "" {
		sub := db.Table("book_categories bc").
			Select("bc.book_id").
			Joins("JOIN tech_categories c ON c.id = bc.category_id").
			Where("c.code = ?", strings.ToUpper(params.CategoryCode))
		query = query.Where("id IN (?)", sub)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var models []BookModel
	if err := paginate(query.Preload("Publisher").Order("id"), params.Page, params.PageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}
	books, err := r.hydrate(db, models)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// toModel 解析出版社并转换为模型
func (r *bookRepository) toModel(tx *gorm.DB, b *book.Book) (*BookModel, error) {
	model := &BookModel{
		ID:              b.ID,
		ISBN13:          b.ISBN13,
		Title:           b.Title,
		TitleEn:         b.TitleEn,
		PublicationDate: b.PublicationDate,
		Edition:         b.Edition,
		ListPrice:       b.ListPrice,
		SellingPrice:    b.SellingPrice,
		Pages:           b.Pages,
		Level:           string(b.Level),
		VersionInfo:     b.VersionInfo,
		SampleCodeURL:   b.SampleCodeURL,
	}
	if name := strings.TrimSpace(b.PublisherName()); name != "" {
		p := PublisherModel{Name: name}
		if err := tx.Where(PublisherModel{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return nil, apperrors.Wrap(err, "保存出版社失败")
		}
		model.PublisherID = &p.ID
		b.Publisher = &book.Publisher{ID: p.ID, Name: p.Name}
	}
	return model, nil
}

// replaceAssociations 重写作者与分类关联，并回填ID
func (r *bookRepository) replaceAssociations(tx *gorm.DB, b *book.Book) error {
	if err := tx.Where("book_id = ?", b.ID).Delete(&BookAuthorModel{}).Error; err != nil {
		return apperrors.Wrap(err, "更新作者失败")
	}
	for i := range b.Authors {
		a := AuthorModel{Name: b.Authors[i].Name}
		if err := tx.Where(AuthorModel{Name: a.Name}).FirstOrCreate(&a).Error; err != nil {
			return apperrors.Wrap(err, "保存作者失败")
		}
		b.Authors[i].ID = a.ID
		if err := tx.Create(&BookAuthorModel{BookID: b.ID, AuthorID: a.ID, Position: i}).Error; err != nil {
			return apperrors.Wrap(err, "保存作者失败")
		}
	}

	if err := tx.Where("book_id = ?", b.ID).Delete(&BookCategoryModel{}).Error; err != nil {
		return apperrors.Wrap(err, "更新分类失败")
	}
	for i := range b.Categories {
		var c CategoryModel
		if err := tx.Where("code = ?", b.Categories[i].Code).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrCategoryNotFound.WithMessage("分类不存在: " + b.Categories[i].Code)
			}
			return apperrors.Wrap(err, "查询分类失败")
		}
		b.Categories[i] = toCategoryEntity(&c)
		if err := tx.Create(&BookCategoryModel{BookID: b.ID, CategoryID: c.ID, Position: i}).Error; err != nil {
			return apperrors.Wrap(err, "保存分类失败")
		}
	}
	return nil
}

// hydrate 批量加载作者与分类（每类一次查询）
func (r *bookRepository) hydrate(db *gorm.DB, models []BookModel) ([]*book.Book, error) {
	books := make([]*book.Book, len(models))
	if len(models) == 0 {
		return books, nil
	}
	ids := make([]uint, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}

	type authorRow struct {
		BookID uint
		ID     uint
		Name   string
	}
	var authors []authorRow
	if err := db.Table("book_authors ba").
		Select("ba.book_id, a.id, a.name").
		Joins("JOIN authors a ON a.id = ba.author_id").
		Where("ba.book_id IN ?", ids).
		Order("ba.book_id, ba.position").
		Scan(&authors).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	type categoryRow struct {
		BookID     uint
		ID         uint
		Code       string
		Name       string
		ParentCode string
	}
	var cats []categoryRow
	if err := db.Table("book_categories bc").
		Select("bc.book_id, c.id, c.code, c.name, c.parent_code").
		Joins("JOIN tech_categories c ON c.id = bc.category_id").
		Where("bc.book_id IN ?", ids).
		Order("bc.book_id, bc.position").
		Scan(&cats).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	byID := make(map[uint]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
		byID[models[i].ID] = books[i]
	}
	for _, a := range authors {
		b := byID[a.BookID]
		b.Authors = append(b.Authors, book.Author{ID: a.ID, Name: a.Name})
	}
	for _, c := range cats {
		b := byID[c.BookID]
		b.Categories = append(b.Categories, book.Category{ID: c.ID, Code: c.Code, Name: c.Name, ParentCode: c.ParentCode})
	}
	return books, nil
}

func toBookEntity(m *BookModel) *book.Book {
	b := &book.Book{
		ID:              m.ID,
		ISBN13:          m.ISBN13,
		Title:           m.Title,
		TitleEn:         m.TitleEn,
		PublicationDate: m.PublicationDate,
		Edition:         m.Edition,
		ListPrice:       m.ListPrice,
		SellingPrice:    m.SellingPrice,
		Pages:           m.Pages,
		Level:           book.TechLevel(m.Level),
		VersionInfo:     m.VersionInfo,
		SampleCodeURL:   m.SampleCodeURL,
		Authors:         []book.Author{},
		Categories:      []book.Category{},
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Publisher != nil {
		b.Publisher = &book.Publisher{ID: m.Publisher.ID, Name: m.Publisher.Name}
	}
	return b
}

// categoryRepository 技术分类仓储
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) book.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *book.Category) error {
	model := &CategoryModel{Code: c.Code, Name: c.Name, ParentCode: c.ParentCode}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrCategoryDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	return nil
}

func (r *categoryRepository) FindByCode(ctx context.Context, code string) (*book.Category, error) {
	var model CategoryModel
	if err := dbFrom(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	c := toCategoryEntity(&model)
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*book.Category, error) {
	var models []CategoryModel
	if err := dbFrom(ctx, r.db).Order("code").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	out := make([]*book.Category, len(models))
	for i := range models {
		c := toCategoryEntity(&models[i])
		out[i] = &c
	}
	return out, nil
}

func toCategoryEntity(m *CategoryModel) book.Category {
	return book.Category{ID: m.ID, Code: m.Code, Name: m.Name, ParentCode: m.ParentCode}
}
