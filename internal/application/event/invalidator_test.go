package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/application/event"
	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

type fakeInvalidator struct {
	orders, inventory int
	err               error
}

func (f *fakeInvalidator) InvalidateOrders(context.Context) error {
	f.orders++
	return f.err
}

func (f *fakeInvalidator) InvalidateInventory(context.Context) error {
	f.inventory++
	return f.err
}

func TestCacheInvalidator_Routing(t *testing.T) {
	ctx := context.Background()
	f := &fakeInvalidator{}
	h := event.NewCacheInvalidator(f, zerolog.Nop())

	for _, key := range []string{event.OrderCreated, event.OrderConfirmed, event.OrderCancelled} {
		require.NoError(t, h(ctx, mq.Delivery{RoutingKey: key}))
	}
	require.NoError(t, h(ctx, mq.Delivery{RoutingKey: event.InventoryLowStock}))
	// 路由键缺失时取信封类型
	require.NoError(t, h(ctx, mq.Delivery{Envelope: mq.Envelope{Type: event.InventoryChanged}}))
	require.NoError(t, h(ctx, mq.Delivery{RoutingKey: event.ReportBatchCompleted}))

	assert.Equal(t, 3, f.orders)
	assert.Equal(t, 2, f.inventory)
}

func TestCacheInvalidator_Error(t *testing.T) {
	f := &fakeInvalidator{err: errors.New("redis down")}
	h := event.NewCacheInvalidator(f, zerolog.Nop())

	err := h(context.Background(), mq.Delivery{RoutingKey: event.OrderStatusChanged})
	assert.EqualError(t, err, "redis down")
}

func TestCacheInvalidator_EvictsReportCache(t *testing.T) {
	ctx := context.Background()
	mem, err := cache.NewMemoryCache(64, time.Minute)
	require.NoError(t, err)

	h := event.NewCacheInvalidator(appreport.NewInvalidator(mem, zerolog.Nop()), zerolog.Nop())

	seed := func() {
		for _, k := range []string{
			cache.Key(appreport.PrefixSales, "2024-01-01", "2024-01-31"),
			cache.Key(appreport.PrefixInventory, "summary"),
			cache.Key(appreport.PrefixDashboard, "kpis"),
		} {
			require.NoError(t, mem.Set(ctx, k, 1, 0))
		}
	}
	has := func(k string) bool {
		var v int
		hit, err := mem.Get(ctx, k, &v)
		require.NoError(t, err)
		return hit
	}

	seed()
	require.NoError(t, h(ctx, mq.Delivery{RoutingKey: event.OrderConfirmed}))
	assert.False(t, has(cache.Key(appreport.PrefixSales, "2024-01-01", "2024-01-31")))
	assert.False(t, has(cache.Key(appreport.PrefixDashboard, "kpis")))
	assert.True(t, has(cache.Key(appreport.PrefixInventory, "summary")), "订单事件不影响库存报表")

	seed()
	require.NoError(t, h(ctx, mq.Delivery{RoutingKey: event.InventoryChanged}))
	assert.False(t, has(cache.Key(appreport.PrefixInventory, "summary")))
	assert.True(t, has(cache.Key(appreport.PrefixSales, "2024-01-01", "2024-01-31")))
}
