package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/inventory"
)

func intPtr(v int) *int { return &v }

func seedInventory(t *testing.T, repo inventory.Repository, bookID uint, store, warehouse int, rop *int) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.New(bookID, store, warehouse, rop, 10, "A-01")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func TestInventoryRepository_LockByBookIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()
	for _, id := range []uint{3, 1, 2} {
		seedInventory(t, repo, id, 5, 5, nil)
	}

	rows, err := repo.LockByBookIDs(ctx, []uint{3, 1, 3})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(1), rows[0].BookID)
	assert.Equal(t, uint(3), rows[1].BookID)

	_, err = repo.LockByBookIDs(ctx, []uint{1, 9})
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)

	_, err = repo.FindByBookID(ctx, 9)
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)
}

func TestInventoryRepository_SaveAndStatusQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	healthy := seedInventory(t, repo, 1, 20, 5, intPtr(5))
	low := seedInventory(t, repo, 2, 2, 1, intPtr(5))
	seedInventory(t, repo, 3, 0, 0, intPtr(5))
	seedInventory(t, repo, 4, 1, 0, nil)

	lowRows, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, lowRows, 2, "补货点以下含零库存")

	outRows, err := repo.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, outRows, 1)
	assert.Equal(t, uint(3), outRows[0].BookID)

	for status, want := range map[inventory.StockStatus]int64{
		inventory.StatusInStock:    2,
		inventory.StatusLowStock:   1,
		inventory.StatusOutOfStock: 1,
	} {
		_, total, err := repo.List(ctx, inventory.ListParams{Page: 1, PageSize: 10, Status: status})
		require.NoError(t, err)
		assert.Equal(t, want, total, status)
	}

	_, err = low.Receive(10, "WAREHOUSE", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, low))
	got, err := repo.FindByBookIDForUpdate(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 11, got.WarehouseStock)
	assert.Equal(t, inventory.StatusInStock, got.Status())
	require.NotNil(t, got.LastReceivedDate)

	require.NoError(t, healthy.UpdateSettings(nil, 0, ""))
	require.NoError(t, repo.Save(ctx, healthy))
	got, err = repo.FindByBookID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got.ReorderPoint, "补货点可清空")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInventoryRepository_Movements(t *testing.T) {
	db := newTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()
	inv := seedInventory(t, repo, 1, 5, 0, nil)

	base := utc(2026, 3, 1, 9)
	m1, err := inv.Receive(3, inventory.LocationStore, "入库", base)
	require.NoError(t, err)
	m2, err := inv.Sell(2, "", base.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.AppendMovements(ctx, m1, m2))
	assert.NotZero(t, m1.ID)

	list, total, err := repo.ListMovements(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, inventory.MovementSell, list[0].Type, "最新流水在前")
	assert.Equal(t, -2, list[0].Quantity)
	assert.Equal(t, "入库", list[1].Note)

	assert.NoError(t, repo.AppendMovements(ctx))
}
