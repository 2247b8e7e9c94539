package book

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/book"
	"github.com/xiebiao/techbookstore/internal/domain/order"
	"github.com/xiebiao/techbookstore/internal/testutil/memstore"
)

type fixture struct {
	store  *memstore.Store
	create *CreateBookUseCase
	get    *GetBookUseCase
	update *UpdateBookUseCase
	delete *DeleteBookUseCase
	list   *ListBooksUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	svc := book.NewService(store.Books(), store.Categories())
	for _, c := range []book.Category{{Code: "GO", Name: "Go"}, {Code: "CLOUD", Name: "Cloud Native"}} {
		c := c
		require.NoError(t, store.Categories().Create(context.Background(), &c))
	}
	return &fixture{
		store:  store,
		create: NewCreateBookUseCase(store.Books(), store.Inventories(), svc, store, zerolog.Nop()),
		get:    NewGetBookUseCase(store.Books(), store.Inventories()),
		update: NewUpdateBookUseCase(store.Books(), svc, store, zerolog.Nop()),
		delete: NewDeleteBookUseCase(store.Books(), store.Orders(), zerolog.Nop()),
		list:   NewListBooksUseCase(store.Books()),
	}
}

func validRequest() CreateBookRequest {
	return CreateBookRequest{
		ISBN13:         "978-4-297-10000-1",
		Title:          "実用Go言語",
		ListPrice:      decimal.NewFromInt(3520),
		SellingPrice:   decimal.NewFromInt(3520),
		Level:          "intermediate",
		Authors:        []string{"渋川よしき", "辻大志郎"},
		Categories:     []string{"GO"},
		StoreStock:     4,
		WarehouseStock: 10,
	}
}

func TestCreateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.create.Execute(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "9784297100001", created.ISBN13, "ISBN去掉分隔符")
	assert.Equal(t, "INTERMEDIATE", created.Level)
	assert.Equal(t, []string{"GO"}, created.Categories)
	require.NotNil(t, created.Stock)
	assert.Equal(t, 14, created.Stock.AvailableStock)

	inv := f.store.Inventory(created.ID)
	assert.Equal(t, 4, inv.StoreStock)

	t.Run("ISBN重复", func(t *testing.T) {
		_, err := f.create.Execute(ctx, validRequest())
		assert.ErrorIs(t, err, book.ErrISBNDuplicate)
	})

	t.Run("分类不存在时不留下图书", func(t *testing.T) {
		req := validRequest()
		req.ISBN13 = "9784297100002"
		req.Categories = []string{"COBOL"}
		_, err := f.create.Execute(ctx, req)
		assert.ErrorIs(t, err, book.ErrCategoryNotFound)

		resp, err := f.list.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("字段校验", func(t *testing.T) {
		req := validRequest()
		req.SellingPrice = decimal.Zero
		_, err := f.create.Execute(ctx, req)
		assert.Equal(t, book.ErrInvalidPrice, err)

		req = validRequest()
		req.ISBN13 = "97842971"
		_, err = f.create.Execute(ctx, req)
		assert.Equal(t, book.ErrInvalidISBN, err)
	})
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.create.Execute(ctx, validRequest())
	require.NoError(t, err)

	price := decimal.NewFromInt(2980)
	title := "実用Go言語 第2版"
	updated, err := f.update.Execute(ctx, UpdateBookRequest{
		ID:           created.ID,
		Title:        &title,
		SellingPrice: &price,
		Categories:   []string{"GO", "CLOUD"},
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, price.Equal(updated.SellingPrice))
	assert.Equal(t, []string{"GO", "CLOUD"}, updated.Categories)
	assert.Equal(t, []string{"渋川よしき", "辻大志郎"}, updated.Authors, "未传的字段保持不变")

	got, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	require.NotNil(t, got.Stock)

	_, err = f.update.Execute(ctx, UpdateBookRequest{ID: 999, Title: &title})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unused, err := f.create.Execute(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, f.delete.Execute(ctx, unused.ID))
	_, err = f.get.Execute(ctx, unused.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	req := validRequest()
	req.ISBN13 = "9784297100003"
	ordered, err := f.create.Execute(ctx, req)
	require.NoError(t, err)

	item, err := order.NewItem(ordered.ID, 1, ordered.SellingPrice)
	require.NoError(t, err)
	o, err := order.NewOrder("ORD-20260101-0001", nil, order.TypeWalkIn, order.PaymentCash, "", []order.Item{item}, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.Orders().Create(ctx, o))

	assert.ErrorIs(t, f.delete.Execute(ctx, ordered.ID), book.ErrBookInUse)
}

func TestListBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, isbn := range []string{"9784297100011", "9784297100012", "9784297100013"} {
		req := validRequest()
		req.ISBN13 = isbn
		if i == 2 {
			req.Title = "クラウドネイティブ入門"
			req.Level = "BEGINNER"
			req.Categories = []string{"CLOUD"}
		}
		_, err := f.create.Execute(ctx, req)
		require.NoError(t, err)
	}

	resp, err := f.list.Execute(ctx, ListBooksRequest{Category: "CLOUD"})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "クラウドネイティブ入門", resp.List[0].Title)

	resp, err = f.list.Execute(ctx, ListBooksRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.List, 1)

	resp, err = f.list.Execute(ctx, ListBooksRequest{Level: "beginner"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
}
