package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/customer"
	"github.com/xiebiao/techbookstore/internal/domain/optimization"
	"github.com/xiebiao/techbookstore/internal/domain/staff"
)

func TestCustomerRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	taro := &customer.Customer{Name: "山田 太郎", Email: "taro@example.com", CustomerType: customer.TypeIndividual, Status: customer.StatusActive}
	corp := &customer.Customer{Name: "佐藤 花子", Email: "hanako@acme.jp", CompanyName: "ACME", CustomerType: customer.TypeCorporate, Status: customer.StatusActive}
	require.NoError(t, repo.Create(ctx, taro))
	require.NoError(t, repo.Create(ctx, corp))

	found, err := repo.FindActiveByEmail(ctx, "taro@example.com")
	require.NoError(t, err)
	assert.Equal(t, taro.ID, found.ID)

	taro.MarkDeleted(time.Now())
	require.NoError(t, repo.Update(ctx, taro))

	_, err = repo.FindActiveByEmail(ctx, "taro@example.com")
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	deleted, err := repo.FindByID(ctx, taro.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted(), "已删除顾客仍可按ID查询")

	_, total, err := repo.List(ctx, customer.ListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.List(ctx, customer.ListParams{Page: 1, PageSize: 10, IncludeDeleted: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	list, _, err := repo.List(ctx, customer.ListParams{Page: 1, PageSize: 10, Keyword: "acme"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, corp.ID, list[0].ID)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &customer.Customer{ID: 99, Name: "x"}), customer.ErrCustomerNotFound)
}

func TestSettingsRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	s := optimization.DefaultSettings(5)
	require.NoError(t, repo.Save(ctx, s))

	s.LeadTimeDays = 21
	s.CostRatio = decimal.RequireFromString("0.65")
	s.MaxStock = intPtr(80)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.FindByBookIDs(ctx, []uint{5, 6})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 21, got[5].LeadTimeDays)
	assert.True(t, got[5].CostRatio.Equal(decimal.RequireFromString("0.65")))
	require.NotNil(t, got[5].MaxStock)
	assert.Equal(t, 80, *got[5].MaxStock)

	empty, err := repo.FindByBookIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStaffRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStaffRepository(db)
	ctx := context.Background()

	s := staff.NewStaff("clerk@store.jp", "$2a$10$hash", "鈴木", staff.RoleClerk)
	require.NoError(t, repo.Create(ctx, s))
	assert.NotZero(t, s.ID)

	dup := staff.NewStaff("clerk@store.jp", "$2a$10$hash", "鈴木", staff.RoleClerk)
	assert.ErrorIs(t, repo.Create(ctx, dup), staff.ErrEmailDuplicate)

	got, err := repo.FindByEmail(ctx, "clerk@store.jp")
	require.NoError(t, err)
	assert.Equal(t, staff.RoleClerk, got.Role)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
