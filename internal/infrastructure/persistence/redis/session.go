package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/techbookstore/internal/application/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// SessionStore 员工会话与令牌黑名单
//
//	session:{staff_id}  登录信息（Hash），过期时间与Refresh Token一致
//	blacklist:{token}   已注销的Access Token，保留到令牌自然过期
type SessionStore struct {
	client redis.UniversalClient
}

var _ staff.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(staffID uint) string {
	return fmt.Sprintf("session:%d", staffID)
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveSession 写入会话并设置过期时间（同一事务管道）
func (s *SessionStore) SaveSession(ctx context.Context, sess staff.Session, ttl time.Duration) error {
	key := sessionKey(sess.StaffID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"staff_id": strconv.FormatUint(uint64(sess.StaffID), 10),
			"email":    sess.Email,
			"role":     sess.Role,
			"ip":       sess.IP,
			"login_at": sess.LoginAt.UTC().Format(time.RFC3339),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

func (s *SessionStore) HasSession(ctx context.Context, staffID uint) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(staffID)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "查询会话失败")
	}
	return n > 0, nil
}

// GetSession 读取会话，不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, staffID uint) (*staff.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(staffID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	loginAt, _ := time.Parse(time.RFC3339, fields["login_at"])
	return &staff.Session{
		StaffID: staffID,
		Email:   fields["email"],
		Role:    fields["role"],
		IP:      fields["ip"],
		LoginAt: loginAt,
	}, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, staffID uint) error {
	if err := s.client.Del(ctx, sessionKey(staffID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return n > 0, nil
}
