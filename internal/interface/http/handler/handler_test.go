package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/xiebiao/techbookstore/internal/application/inventory"
	apporder "github.com/xiebiao/techbookstore/internal/application/order"
	"github.com/xiebiao/techbookstore/internal/testutil/memstore"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	store  *memstore.Store
	engine *gin.Engine
}

func newServer(t *testing.T) *server {
	store := memstore.New()
	pub := &memstore.Publisher{}
	log := zerolog.Nop()

	inv := NewInventoryHandler(
		appinventory.NewQueryUseCase(store.Inventories(), store.Books()),
		appinventory.NewStockUseCase(store.Inventories(), store, pub, log),
	)
	orders := NewOrderHandler(
		apporder.NewCreateOrderUseCase(store.Orders(), store.Books(), store.Customers(), store, pub, log),
		apporder.NewQueryUseCase(store.Orders(), store.Books(), store.Customers()),
		apporder.NewWorkflowUseCase(store.Orders(), store.Inventories(), store, pub, log),
	)

	r := gin.New()
	r.GET("/inventory", inv.List)
	r.GET("/inventory/alerts", inv.Alerts)
	r.GET("/inventory/:bookId", inv.Get)
	r.GET("/inventory/:bookId/transactions", inv.Transactions)
	r.POST("/inventory/receive", inv.Receive)
	r.POST("/inventory/sell", inv.Sell)
	r.POST("/orders", orders.CreateOrder)
	r.GET("/orders", orders.ListOrders)
	r.GET("/orders/status-counts", orders.StatusCounts)
	r.GET("/orders/:id", orders.GetOrder)
	r.POST("/orders/:id/confirm", orders.Confirm)
	r.POST("/orders/:id/cancel", orders.Cancel)
	r.PUT("/orders/:id/status", orders.UpdateStatus)

	return &server{t: t, store: store, engine: r}
}

func (s *server) do(method, path string, payload interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestInventoryHandler(t *testing.T) {
	s := newServer(t)
	rop := 3
	bookID := s.store.SeedBook("詳解Go言語Webアプリケーション開発", 3400, 4, 0, &rop)

	t.Run("入库", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/inventory/receive", gin.H{"bookId": bookID, "quantity": 6, "location": "WAREHOUSE"})
		require.Equal(t, http.StatusOK, status, env.Message)
		inv := decode[appinventory.InventoryDTO](t, env.Data)
		assert.Equal(t, 4, inv.StoreStock)
		assert.Equal(t, 6, inv.WarehouseStock)
		assert.Equal(t, 10, inv.TotalStock)
	})

	t.Run("参数校验", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/inventory/sell", gin.H{"bookId": bookID, "quantity": 0})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	})

	t.Run("库存不足", func(t *testing.T) {
		// 可用量为门店4+仓库6
		status, env := s.do(http.MethodPost, "/inventory/sell", gin.H{"bookId": bookID, "quantity": 11})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)
	})

	t.Run("非法路径参数", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/inventory/abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	})

	t.Run("库存不存在", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/inventory/999", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, apperrors.ErrCodeInventoryNotFound, env.Code)
	})

	t.Run("流水分页", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/inventory/"+itoa(bookID)+"/transactions?page=1&size=10", nil)
		require.Equal(t, http.StatusOK, status)
		page := decode[struct {
			List  []appinventory.MovementDTO `json:"list"`
			Total int64                      `json:"total"`
		}](t, env.Data)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.List, 1)
		assert.Equal(t, "RECEIVE", page.List[0].Type)
	})

	t.Run("每页数量上限", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/inventory?size=101", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestOrderHandler_Lifecycle(t *testing.T) {
	s := newServer(t)
	bookID := s.store.SeedBook("プログラミングRust", 4800, 3, 0, nil)

	status, env := s.do(http.MethodPost, "/orders", gin.H{
		"type":          "WALK_IN",
		"paymentMethod": "CASH",
		"items":         []gin.H{{"bookId": bookID, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	created := decode[apporder.OrderDTO](t, env.Data)
	assert.Equal(t, "PENDING", created.Status)
	assert.Regexp(t, `^ORD-\d{8}-0001$`, created.OrderNumber)
	assert.Equal(t, "9600", created.TotalAmount.String())

	id := itoa(created.ID)

	status, env = s.do(http.MethodPut, "/orders/"+id+"/status", gin.H{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.ErrCodeInvalidOrderStatus, env.Code)

	status, env = s.do(http.MethodPost, "/orders/"+id+"/confirm", nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "CONFIRMED", decode[apporder.OrderDTO](t, env.Data).Status)
	assert.Equal(t, 1, s.store.Inventory(bookID).StoreStock)

	status, env = s.do(http.MethodPost, "/orders/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	cancelled := decode[apporder.OrderDTO](t, env.Data)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledDate)
	assert.Equal(t, 3, s.store.Inventory(bookID).StoreStock, "取消后归还门店库存")

	status, env = s.do(http.MethodGet, "/orders/status-counts", nil)
	require.Equal(t, http.StatusOK, status)
	counts := decode[map[string]int](t, env.Data)
	assert.Equal(t, 1, counts["CANCELLED"])
	assert.Equal(t, 0, counts["PENDING"])
}

func TestOrderHandler_Validation(t *testing.T) {
	s := newServer(t)
	bookID := s.store.SeedBook("Go言語による並行処理", 3600, 1, 0, nil)

	t.Run("明细不能为空", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/orders", gin.H{"type": "ONLINE", "paymentMethod": "CASH", "items": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	})

	t.Run("未知图书", func(t *testing.T) {
		status, env := s.do(http.MethodPost, "/orders", gin.H{
			"type": "ONLINE", "paymentMethod": "CASH",
			"items": []gin.H{{"bookId": 404, "quantity": 1}},
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, env.Code)
	})

	t.Run("确认时库存不足", func(t *testing.T) {
		_, env := s.do(http.MethodPost, "/orders", gin.H{
			"type": "PHONE", "paymentMethod": "BANK_TRANSFER",
			"items": []gin.H{{"bookId": bookID, "quantity": 2}},
		})
		o := decode[apporder.OrderDTO](t, env.Data)

		status, env := s.do(http.MethodPost, "/orders/"+itoa(o.ID)+"/confirm", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)
		assert.Equal(t, 1, s.store.Inventory(bookID).StoreStock)
	})

	t.Run("日期格式", func(t *testing.T) {
		status, env := s.do(http.MethodGet, "/orders?startDate=2026/04/01", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	})

	t.Run("排序字段", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/orders?sortBy=title", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
