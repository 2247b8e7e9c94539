package staff

import (
	"context"
	"time"
)

// Session 员工登录会话
type Session struct {
	StaffID uint
	Email   string
	Role    string
	IP      string
	LoginAt time.Time
}

// SessionStore 会话与令牌黑名单（Redis实现见persistence/redis.SessionStore）
type SessionStore interface {
	SaveSession(ctx context.Context, s Session, ttl time.Duration) error
	HasSession(ctx context.Context, staffID uint) (bool, error)
	DeleteSession(ctx context.Context, staffID uint) error

	// Revoke 令牌在ttl内视为失效
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
