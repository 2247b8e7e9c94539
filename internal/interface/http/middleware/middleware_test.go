package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstaff "github.com/xiebiao/techbookstore/internal/application/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/jwt"
	"github.com/xiebiao/techbookstore/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// revokedStore 只实现黑名单，会话相关方法不会被中间件调用
type revokedStore struct {
	appstaff.SessionStore
	revoked map[string]bool
}

func (s *revokedStore) IsRevoked(_ context.Context, token string) (bool, error) {
	return s.revoked[token], nil
}

type body struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine(auth *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(AccessLog(zerolog.Nop()), Recovery())

	whoami := func(c *gin.Context) {
		response.Success(c, gin.H{"staffId": GetStaffID(c), "role": GetRole(c), "operator": GetOperator(c)})
	}
	r.GET("/open", auth.OptionalAuth(), whoami)
	r.GET("/private", auth.RequireAuth(), whoami)
	r.POST("/admin", auth.RequireAuth(), auth.RequireAdmin(), whoami)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string) (*httptest.ResponseRecorder, body) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return w, b
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("middleware-test-secret", time.Hour, 24*time.Hour)
	clerk, err := manager.GenerateToken(jwt.Identity{StaffID: 7, Email: "clerk@shop.example", Role: "CLERK"})
	require.NoError(t, err)
	admin, err := manager.GenerateToken(jwt.Identity{StaffID: 1, Email: "owner@shop.example", Role: "ADMIN"})
	require.NoError(t, err)

	store := &revokedStore{revoked: map[string]bool{}}
	r := newEngine(NewAuthMiddleware(manager, store))

	t.Run("未带Token", func(t *testing.T) {
		w, b := do(t, r, http.MethodGet, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, b.Code)
	})

	t.Run("Refresh Token不能访问接口", func(t *testing.T) {
		w, _ := do(t, r, http.MethodGet, "/private", clerk.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("合法Token", func(t *testing.T) {
		w, b := do(t, r, http.MethodGet, "/private", clerk.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"staffId":7,"role":"CLERK","operator":"clerk@shop.example"}`, string(b.Data))
	})

	t.Run("非管理员访问管理接口", func(t *testing.T) {
		w, b := do(t, r, http.MethodPost, "/admin", clerk.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.ErrCodeForbidden, b.Code)
	})

	t.Run("管理员", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/admin", admin.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("可选认证允许匿名", func(t *testing.T) {
		w, b := do(t, r, http.MethodGet, "/open", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"staffId":0,"role":"","operator":"system"}`, string(b.Data))
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		store.revoked[clerk.AccessToken] = true
		w, b := do(t, r, http.MethodGet, "/private", clerk.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.ErrCodeTokenExpired, b.Code)

		_, b = do(t, r, http.MethodGet, "/open", clerk.AccessToken)
		assert.JSONEq(t, `{"staffId":0,"role":"","operator":"system"}`, string(b.Data), "吊销的Token按匿名处理")
	})
}

func TestAccessLog_RequestID(t *testing.T) {
	manager := jwt.NewManager("middleware-test-secret", time.Hour, 24*time.Hour)
	r := newEngine(NewAuthMiddleware(manager, &revokedStore{}))

	w, _ := do(t, r, http.MethodGet, "/open", "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(HeaderRequestID, "req-20260401-001")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-20260401-001", w.Header().Get(HeaderRequestID), "沿用客户端传入的请求ID")
}

func TestRecovery(t *testing.T) {
	manager := jwt.NewManager("middleware-test-secret", time.Hour, 24*time.Hour)
	r := newEngine(NewAuthMiddleware(manager, &revokedStore{}))

	w, b := do(t, r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.ErrCodeInternal, b.Code)
}
