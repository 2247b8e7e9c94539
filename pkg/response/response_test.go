package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_StatusMapping(t *testing.T) {
	t.Run("资源不存在返回404", func(t *testing.T) {
		w, body := perform(t, func(c *gin.Context) {
			Error(c, apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在"))
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, body.Code)
	})

	t.Run("业务规则失败返回400", func(t *testing.T) {
		w, body := perform(t, func(c *gin.Context) {
			Error(c, apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足"))
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "库存不足", body.Message)
	})

	t.Run("未知错误返回500且隐藏内部信息", func(t *testing.T) {
		w, body := perform(t, func(c *gin.Context) {
			Error(c, errors.New("dial tcp: connection refused"))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrCodeInternal, body.Code)
		assert.NotContains(t, body.Message, "connection refused")
	})
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPageData([]int{}, 0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
}
