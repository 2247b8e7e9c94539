package staff

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/techbookstore/internal/domain/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/jwt"
)

type memRepo struct {
	mu   sync.Mutex
	rows []*staff.Staff
}

func (r *memRepo) Create(_ context.Context, s *staff.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Email == s.Email {
			return staff.ErrEmailDuplicate
		}
	}
	s.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, staff.ErrStaffNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*staff.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, staff.ErrStaffNotFound
}

func (r *memRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type memSessions struct {
	sessions map[uint]Session
	revoked  map[string]time.Duration
	saveErr  error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[uint]Session{}, revoked: map[string]time.Duration{}}
}

func (m *memSessions) SaveSession(_ context.Context, s Session, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[s.StaffID] = s
	return nil
}

func (m *memSessions) HasSession(_ context.Context, id uint) (bool, error) {
	_, ok := m.sessions[id]
	return ok, nil
}

func (m *memSessions) DeleteSession(_ context.Context, id uint) error {
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.revoked[token] = ttl
	return nil
}

func (m *memSessions) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := m.revoked[token]
	return ok, nil
}

type fixture struct {
	repo     *memRepo
	sessions *memSessions
	jwt      *jwt.Manager
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	refresh  *RefreshUseCase
}

func newFixture() *fixture {
	repo := &memRepo{}
	sessions := newMemSessions()
	manager := jwt.NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)
	svc := staff.NewService(repo, bcrypt.MinCost)
	log := zerolog.Nop()
	return &fixture{
		repo:     repo,
		sessions: sessions,
		jwt:      manager,
		register: NewRegisterUseCase(svc, log),
		login:    NewLoginUseCase(svc, manager, sessions, 7*24*time.Hour, log),
		logout:   NewLogoutUseCase(sessions, log),
		refresh:  NewRefreshUseCase(repo, manager, sessions),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner, err := f.register.Execute(ctx, RegisterRequest{Email: "owner@shop.example", Password: "secret123", Name: "店长", Role: "clerk"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", owner.Role)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "owner@shop.example", Password: "secret123", ClientIP: "10.0.0.8"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, resp.Staff.ID)
	assert.Equal(t, int64(7200), resp.ExpiresIn)

	claims, err := f.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)

	session, ok := f.sessions.sessions[owner.ID]
	require.True(t, ok)
	assert.Equal(t, "10.0.0.8", session.IP)

	_, err = f.login.Execute(ctx, LoginRequest{Email: "owner@shop.example", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestLogin_SessionFailureDoesNotBlock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.example", Password: "secret123", Name: "店员"})
	require.NoError(t, err)

	f.sessions.saveErr = errors.New("redis: connection refused")
	resp, err := f.login.Execute(ctx, LoginRequest{Email: "clerk@shop.example", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogoutRevokesTokenAndSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.example", Password: "secret123", Name: "店员"})
	require.NoError(t, err)
	resp, err := f.login.Execute(ctx, LoginRequest{Email: "clerk@shop.example", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	claims, err := f.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.logout.Execute(ctx, claims, resp.AccessToken))

	ttl, revoked := f.sessions.revoked[resp.AccessToken]
	require.True(t, revoked)
	assert.InDelta(t, (2 * time.Hour).Seconds(), ttl.Seconds(), 60, "黑名单有效期为令牌剩余时间")

	_, err = f.refresh.Execute(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "登出后不能再刷新")
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.example", Password: "secret123", Name: "店员"})
	require.NoError(t, err)
	resp, err := f.login.Execute(ctx, LoginRequest{Email: "clerk@shop.example", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.refresh.Execute(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.register.Execute(ctx, RegisterRequest{Email: "clerk@shop.example", Password: "secret123", Name: "店员"})
	require.NoError(t, err)

	uc := NewProfileUseCase(f.repo)
	got, err := uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "clerk@shop.example", got.Email)

	_, err = uc.Execute(ctx, 99)
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}
