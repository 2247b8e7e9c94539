package customer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/testutil/memstore"
)

func newService() *Service {
	store := memstore.New()
	return NewService(store.Customers(), store, zerolog.Nop())
}

func TestService_Create(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, SaveRequest{Name: "佐藤 花子", Email: "Hanako@Example.com", CustomerType: "student"})
	require.NoError(t, err)
	assert.Equal(t, "hanako@example.com", c.Email)
	assert.Equal(t, "STUDENT", c.CustomerType)
	assert.Equal(t, "ACTIVE", c.Status)

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := svc.Create(ctx, SaveRequest{Name: "別人", Email: "hanako@example.com"})
		assert.ErrorIs(t, err, customer.ErrEmailDuplicate)
	})

	t.Run("企业顾客必须有公司名", func(t *testing.T) {
		_, err := svc.Create(ctx, SaveRequest{Name: "担当者", CustomerType: "CORPORATE"})
		assert.Equal(t, customer.ErrCompanyRequired, err)
	})

	t.Run("不能直接创建已删除的顾客", func(t *testing.T) {
		_, err := svc.Create(ctx, SaveRequest{Name: "x", Status: "DELETED"})
		assert.Equal(t, customer.ErrInvalidStatus, err)
	})
}

func TestService_DeleteFreesEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, SaveRequest{Name: "鈴木 一郎", Email: "ichiro@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID))

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), customer.ErrCustomerNotFound)

	again, err := svc.Create(ctx, SaveRequest{Name: "鈴木 一郎", Email: "ichiro@example.com"})
	require.NoError(t, err, "已删除顾客的邮箱可以复用")
	assert.NotEqual(t, c.ID, again.ID)
}

func TestService_Update(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, SaveRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, SaveRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, SaveRequest{Name: "A2", Email: "a@example.com", CustomerType: "CORPORATE", CompanyName: "Example株式会社", Status: "INACTIVE"})
	require.NoError(t, err, "保留自己的邮箱不算重复")
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "INACTIVE", updated.Status)

	_, err = svc.Update(ctx, a.ID, SaveRequest{Name: "A2", Email: "b@example.com"})
	assert.ErrorIs(t, err, customer.ErrEmailDuplicate)

	_, err = svc.Update(ctx, 999, SaveRequest{Name: "x"})
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestService_List(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, req := range []SaveRequest{
		{Name: "田中", Email: "tanaka@example.com"},
		{Name: "高橋", Email: "takahashi@corp.example", CustomerType: "CORPORATE", CompanyName: "Gopher商事"},
		{Name: "伊藤", CustomerType: "STUDENT"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	removed, err := svc.Create(ctx, SaveRequest{Name: "渡辺"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, removed.ID))

	resp, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total, "默认不含已删除顾客")

	resp, err = svc.List(ctx, ListRequest{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Total)

	resp, err = svc.List(ctx, ListRequest{Status: "deleted"})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, "渡辺", resp.List[0].Name)

	resp, err = svc.List(ctx, ListRequest{Keyword: "Gopher"})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, "高橋", resp.List[0].Name)

	resp, err = svc.List(ctx, ListRequest{CustomerType: "student"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	_, err = svc.List(ctx, ListRequest{CustomerType: "VIP"})
	assert.Equal(t, customer.ErrInvalidType, err)
}
