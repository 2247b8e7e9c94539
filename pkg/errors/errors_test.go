package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{0, http.StatusOK},
		{ErrCodeInsufficientStock, http.StatusBadRequest},
		{ErrCodeInvalidOrderStatus, http.StatusBadRequest},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeBindError, http.StatusBadRequest},
		{ErrCodeOrderNotFound, http.StatusNotFound},
		{ErrCodeInventoryNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.code))
		})
	}
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	base := New(ErrCodeOrderNotFound, "订单不存在")

	t.Run("替换提示信息后仍可识别", func(t *testing.T) {
		err := base.WithMessage("订单不存在: 42")
		assert.True(t, errors.Is(err, base))
		assert.Equal(t, "订单不存在: 42", err.Message)
	})

	t.Run("被fmt包装后仍可识别", func(t *testing.T) {
		err := fmt.Errorf("查询失败: %w", base)
		assert.True(t, errors.Is(err, base))
	})

	t.Run("不同错误码不相等", func(t *testing.T) {
		assert.False(t, errors.Is(ErrInvalidParams, base))
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr.Err, "boom")
	})

	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := GetAppError(ErrInvalidDateRange)
		assert.Same(t, ErrInvalidDateRange, appErr)
	})
}
