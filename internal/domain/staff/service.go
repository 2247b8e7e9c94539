package staff

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 员工注册与认证
type Service interface {
	Register(ctx context.Context, email, password, name string, role Role) (*Staff, error)
	Authenticate(ctx context.Context, email, password string) (*Staff, error)
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService bcryptCost<=0时使用bcrypt.DefaultCost
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{repo: repo, bcryptCost: bcryptCost}
}

// Register 注册员工
// 系统中第一个账号自动成为管理员
func (s *service) Register(ctx context.Context, email, password, name string, role Role) (*Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return nil, ErrInvalidName
	}

	if role == "" {
		role = RoleClerk
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	st := NewStaff(email, string(hashed), name, role)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Authenticate 邮箱不存在与密码错误返回同一个错误，避免枚举账号
func (s *service) Authenticate(ctx context.Context, email, password string) (*Staff, error) {
	st, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil, apperrors.ErrInvalidPassword.WithMessage("邮箱或密码错误")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(st.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword.WithMessage("邮箱或密码错误")
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return st, nil
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
