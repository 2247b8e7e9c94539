package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/application/event"
	"github.com/xiebiao/techbookstore/internal/domain/inventory"
	"github.com/xiebiao/techbookstore/internal/testutil/memstore"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

func intPtr(v int) *int { return &v }

func newStock(store *memstore.Store, pub *memstore.Publisher) *StockUseCase {
	uc := NewStockUseCase(store.Inventories(), store, pub, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return uc
}

func TestStock_Receive(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	uc := newStock(store, pub)
	ctx := context.Background()
	bookID := store.SeedBook("Kubernetes実践", 3200, 2, 0, intPtr(5))

	t.Run("入库到仓库", func(t *testing.T) {
		inv, err := uc.Receive(ctx, ReceiveRequest{BookID: bookID, Quantity: 10, Location: "WAREHOUSE"})
		require.NoError(t, err)
		assert.Equal(t, 2, inv.StoreStock)
		assert.Equal(t, 10, inv.WarehouseStock)
		assert.Equal(t, "IN_STOCK", inv.Status)
		require.NotNil(t, inv.LastReceivedDate)
	})

	t.Run("入库到门店", func(t *testing.T) {
		inv, err := uc.Receive(ctx, ReceiveRequest{BookID: bookID, Quantity: 3, Location: "store"})
		require.NoError(t, err)
		assert.Equal(t, 5, inv.StoreStock)
	})

	t.Run("数量必须为正", func(t *testing.T) {
		_, err := uc.Receive(ctx, ReceiveRequest{BookID: bookID, Quantity: 0})
		assert.Equal(t, inventory.ErrInvalidQuantity, err)
	})

	t.Run("库存不存在", func(t *testing.T) {
		_, err := uc.Receive(ctx, ReceiveRequest{BookID: 999, Quantity: 1})
		assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)
	})

	movements := store.Movements()
	require.Len(t, movements, 2)
	assert.Equal(t, inventory.MovementReceive, movements[0].Type)
	assert.Equal(t, 0, movements[0].WarehouseBefore)
	assert.Equal(t, 10, movements[0].WarehouseAfter)
	assert.Equal(t, []string{event.InventoryChanged, event.InventoryChanged}, pub.RoutingKeys())
}

func TestStock_SellTriggersLowStockEvent(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	uc := newStock(store, pub)
	ctx := context.Background()
	bookID := store.SeedBook("Go言語による並行処理", 3000, 6, 0, intPtr(3))

	inv, err := uc.Sell(ctx, SellRequest{BookID: bookID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, inv.StoreStock)
	assert.True(t, inv.IsLowStock)
	assert.Equal(t, "LOW_STOCK", inv.Status)
	assert.Equal(t, []string{event.InventoryChanged, event.InventoryLowStock}, pub.RoutingKeys())

	low := pub.Events()[1].Payload.(event.StockEvent)
	assert.Equal(t, "SELL", low.MovementType)
	assert.Equal(t, -3, low.Quantity)

	_, err = uc.Sell(ctx, SellRequest{BookID: bookID, Quantity: 4})
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 3, store.Inventory(bookID).StoreStock)
}

func TestStock_Adjust(t *testing.T) {
	store := memstore.New()
	uc := newStock(store, &memstore.Publisher{})
	ctx := context.Background()
	bookID := store.SeedBook("SQLアンチパターン", 3600, 4, 4, nil)

	inv, err := uc.Adjust(ctx, AdjustRequest{BookID: bookID, StoreStock: 0, WarehouseStock: 0, Note: "棚卸"})
	require.NoError(t, err)
	assert.True(t, inv.IsOutOfStock)
	assert.Equal(t, "OUT_OF_STOCK", inv.Status)

	m := store.Movements()
	require.Len(t, m, 1)
	assert.Equal(t, -8, m[0].Quantity)
	assert.Equal(t, "棚卸", m[0].Note)

	_, err = uc.Adjust(ctx, AdjustRequest{BookID: bookID, StoreStock: -1})
	assert.Equal(t, inventory.ErrNegativeStock, err)
}

func TestStock_RollsBackWhenMovementFails(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	uc := newStock(store, pub)
	bookID := store.SeedBook("Go入門", 1000, 5, 0, nil)

	store.FailOn["inventories.AppendMovements"] = errors.New("disk full")
	_, err := uc.Receive(context.Background(), ReceiveRequest{BookID: bookID, Quantity: 5, Location: "STORE"})
	require.Error(t, err)
	assert.Equal(t, 5, store.Inventory(bookID).StoreStock)
	assert.Empty(t, pub.RoutingKeys(), "事务失败不发布事件")
}

func TestStock_UpdateSettings(t *testing.T) {
	store := memstore.New()
	pub := &memstore.Publisher{}
	uc := newStock(store, pub)
	ctx := context.Background()
	bookID := store.SeedBook("Go入門", 1000, 5, 0, nil)

	inv, err := uc.UpdateSettings(ctx, SettingsRequest{BookID: bookID, ReorderPoint: intPtr(8), ReorderQuantity: 20, LocationCode: "A-01"})
	require.NoError(t, err)
	assert.Equal(t, 8, *inv.ReorderPoint)
	assert.Equal(t, 20, inv.ReorderQuantity)
	assert.Equal(t, "A-01", inv.LocationCode)
	assert.Empty(t, store.Movements(), "参数变更不产生流水")
	assert.Equal(t, []string{event.InventoryLowStock}, pub.RoutingKeys())
}

func TestQuery(t *testing.T) {
	store := memstore.New()
	q := NewQueryUseCase(store.Inventories(), store.Books())
	uc := newStock(store, &memstore.Publisher{})
	ctx := context.Background()

	healthy := store.SeedBook("Go入門", 1000, 20, 0, intPtr(5))
	low := store.SeedBook("Rust入門", 2000, 2, 1, intPtr(5))
	empty := store.SeedBook("Zig入門", 2500, 0, 0, intPtr(5))

	got, err := q.Get(ctx, healthy)
	require.NoError(t, err)
	assert.Equal(t, "Go入門", got.Title)
	assert.Equal(t, 20, got.AvailableStock)

	alerts, err := q.Alerts(ctx)
	require.NoError(t, err)
	ids := make([]uint, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.BookID)
	}
	assert.ElementsMatch(t, []uint{low, empty}, ids)

	out, err := q.OutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Zig入門", out[0].Title)

	page, err := q.List(ctx, ListRequest{Status: "low_stock"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = q.List(ctx, ListRequest{Status: "BROKEN"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParams)

	for i := 0; i < 3; i++ {
		_, err := uc.Receive(ctx, ReceiveRequest{BookID: healthy, Quantity: i + 1, Location: "STORE"})
		require.NoError(t, err)
	}
	txs, err := q.Transactions(ctx, healthy, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), txs.Total)
	require.Len(t, txs.List, 2)
	assert.Equal(t, 3, txs.List[0].Quantity, "按时间倒序")
}
