// Package staff 门店员工账号（后台登录与权限）
package staff

import (
	"time"
)

// Role 员工角色
type Role string

const (
	RoleAdmin Role = "ADMIN" // 可执行批处理、维护图书
	RoleClerk Role = "CLERK" // 门店日常操作
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClerk
}

// Staff 员工
type Staff struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStaff 创建员工（password为已哈希的密码）
func NewStaff(email, hashedPassword, name string, role Role) *Staff {
	now := time.Now()
	return &Staff{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}
