package mysql

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/techbookstore/internal/domain/book"
)

// newTestDB 每个测试一个独立的内存SQLite库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", name)

	db, err := Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedCategories(t *testing.T, db *gorm.DB, codes ...string) {
	t.Helper()
	repo := NewCategoryRepository(db)
	for _, code := range codes {
		require.NoError(t, repo.Create(context.Background(), &book.Category{Code: code, Name: code}))
	}
}

func seedBook(t *testing.T, db *gorm.DB, isbn, title string, level book.TechLevel, categories ...string) *book.Book {
	t.Helper()
	b := &book.Book{
		ISBN13:       isbn,
		Title:        title,
		Edition:      1,
		ListPrice:    decimal.RequireFromString("3000"),
		SellingPrice: decimal.RequireFromString("2800"),
		Level:        level,
		Publisher:    &book.Publisher{Name: "技术评论社"},
		Authors:      []book.Author{{Name: "山田"}, {Name: "佐藤"}},
	}
	for _, code := range categories {
		b.Categories = append(b.Categories, book.Category{Code: code})
	}
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}
