package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/techbookstore/internal/application/staff"
	"github.com/xiebiao/techbookstore/internal/domain/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/jwt"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// Context键
const (
	ctxStaffID = "staff_id"
	ctxRole    = "role"
	ctxClaims  = "claims"
	ctxToken   = "token"
)

// AuthMiddleware JWT认证中间件
// 校验顺序：Header格式 → 黑名单 → 签名与有效期，通过后把员工信息写入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	sessions   appstaff.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessions appstaff.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		sessions:   sessions,
	}
}

// RequireAuth 要求登录
//
//	authorized := v1.Group("")
//	authorized.Use(auth.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		revoked, err := m.sessions.IsRevoked(c.Request.Context(), token)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		if revoked {
			response.AbortWithError(c, apperrors.ErrTokenExpired.WithMessage("Token已失效，请重新登录"))
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(token)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth 有合法Token时写入员工信息，否则按匿名请求继续
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.Next()
			return
		}
		if revoked, err := m.sessions.IsRevoked(c.Request.Context(), token); err != nil || revoked {
			c.Next()
			return
		}
		if claims, err := m.jwtManager.ParseAccessToken(token); err == nil {
			setIdentity(c, claims, token)
		}
		c.Next()
	}
}

// RequireAdmin 只允许ADMIN，必须放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != string(staff.RoleAdmin) {
			response.AbortWithError(c, apperrors.ErrForbidden.WithMessage("需要管理员权限"))
			return
		}
		c.Next()
	}
}

// bearerToken 格式：Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrInvalidToken.WithMessage("Token格式错误")
	}
	return strings.TrimSpace(parts[1]), nil
}

func setIdentity(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ctxStaffID, claims.StaffID)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxClaims, claims)
	c.Set(ctxToken, token)
}

// GetStaffID 当前登录员工ID，未登录返回0
func GetStaffID(c *gin.Context) uint {
	return c.GetUint(ctxStaffID)
}

// GetRole 当前登录员工角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetClaims 当前请求的Token声明
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetToken 当前请求的Access Token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// GetOperator 操作人（写入报表created_by等字段），未登录为"system"
func GetOperator(c *gin.Context) string {
	if claims, ok := GetClaims(c); ok && claims.Email != "" {
		return claims.Email
	}
	return "system"
}
