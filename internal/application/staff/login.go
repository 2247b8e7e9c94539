package staff

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/domain/staff"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/jwt"
)

// LoginUseCase 员工登录：校验密码 → 签发令牌对 → 保存会话
type LoginUseCase struct {
	staffService staff.Service
	jwtManager   *jwt.Manager
	sessions     SessionStore
	sessionTTL   time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLoginUseCase sessionTTL与Refresh Token有效期一致
func NewLoginUseCase(
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		staffService: staffService,
		jwtManager:   jwtManager,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		logger:       logger.With().Str("usecase", "login").Logger(),
		now:          time.Now,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Staff        StaffDTO `json:"staff"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	st, err := uc.staffService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(jwt.Identity{
		StaffID: st.ID,
		Email:   st.Email,
		Name:    st.Name,
		Role:    string(st.Role),
	})
	if err != nil {
		return nil, err
	}

	// 会话写入失败不影响登录，但之后无法刷新令牌
	session := Session{StaffID: st.ID, Email: st.Email, Role: string(st.Role), IP: req.ClientIP, LoginAt: uc.now()}
	if err := uc.sessions.SaveSession(ctx, session, uc.sessionTTL); err != nil {
		uc.logger.Warn().Err(err).Uint("staff_id", st.ID).Msg("保存会话失败")
	}

	uc.logger.Info().Uint("staff_id", st.ID).Str("ip", req.ClientIP).Msg("员工登录")
	return &LoginResponse{
		Staff:        toDTO(st),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LogoutUseCase 登出：删除会话，Access Token在剩余有效期内加入黑名单
type LogoutUseCase struct {
	sessions SessionStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions SessionStore, logger zerolog.Logger) *LogoutUseCase {
	return &LogoutUseCase{
		sessions: sessions,
		logger:   logger.With().Str("usecase", "logout").Logger(),
		now:      time.Now,
	}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, claims.StaffID); err != nil {
		return err
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(uc.now()); remaining > 0 {
			ttl = remaining
		}
	}
	if err := uc.sessions.Revoke(ctx, accessToken, ttl); err != nil {
		return err
	}

	uc.logger.Info().Uint("staff_id", claims.StaffID).Msg("员工登出")
	return nil
}

// RefreshUseCase 用Refresh Token换取新的Access Token；登出后会话不存在，刷新失败
type RefreshUseCase struct {
	staffRepo  staff.Repository
	jwtManager *jwt.Manager
	sessions   SessionStore
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(staffRepo staff.Repository, jwtManager *jwt.Manager, sessions SessionStore) *RefreshUseCase {
	return &RefreshUseCase{staffRepo: staffRepo, jwtManager: jwtManager, sessions: sessions}
}

// RefreshResponse 刷新结果
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Execute 执行刷新
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	ok, err := uc.sessions.HasSession(ctx, claims.StaffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrUnauthorized.WithMessage("会话已失效，请重新登录")
	}

	// 角色可能在登录后变更，取最新的员工信息
	st, err := uc.staffRepo.FindByID(ctx, claims.StaffID)
	if err != nil {
		return nil, err
	}
	token, err := uc.jwtManager.RefreshAccessToken(refreshToken, jwt.Identity{
		StaffID: st.ID,
		Email:   st.Email,
		Name:    st.Name,
		Role:    string(st.Role),
	})
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{AccessToken: token}, nil
}

// ProfileUseCase 当前登录员工
type ProfileUseCase struct {
	staffRepo staff.Repository
}

// NewProfileUseCase 创建用例
func NewProfileUseCase(staffRepo staff.Repository) *ProfileUseCase {
	return &ProfileUseCase{staffRepo: staffRepo}
}

// Execute 按ID查询
func (uc *ProfileUseCase) Execute(ctx context.Context, staffID uint) (*StaffDTO, error) {
	st, err := uc.staffRepo.FindByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(st)
	return &dto, nil
}
