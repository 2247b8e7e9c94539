package staff

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/domain/staff"
)

// RegisterUseCase 员工注册
type RegisterUseCase struct {
	staffService staff.Service
	logger       zerolog.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(staffService staff.Service, logger zerolog.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		staffService: staffService,
		logger:       logger.With().Str("usecase", "register_staff").Logger(),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*StaffDTO, error) {
	role := staff.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	st, err := uc.staffService.Register(ctx, req.Email, req.Password, req.Name, role)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Uint("staff_id", st.ID).Str("role", string(st.Role)).Msg("员工已注册")
	dto := toDTO(st)
	return &dto, nil
}
