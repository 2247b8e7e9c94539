package handler

import (
	"github.com/gin-gonic/gin"

	appstaff "github.com/xiebiao/techbookstore/internal/application/staff"
	"github.com/xiebiao/techbookstore/internal/domain/staff"
	"github.com/xiebiao/techbookstore/internal/interface/http/dto"
	"github.com/xiebiao/techbookstore/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// StaffHandler 员工认证
type StaffHandler struct {
	register *appstaff.RegisterUseCase
	login    *appstaff.LoginUseCase
	logout   *appstaff.LogoutUseCase
	refresh  *appstaff.RefreshUseCase
	profile  *appstaff.ProfileUseCase
}

// NewStaffHandler 创建员工处理器
func NewStaffHandler(
	register *appstaff.RegisterUseCase,
	login *appstaff.LoginUseCase,
	logout *appstaff.LogoutUseCase,
	refresh *appstaff.RefreshUseCase,
	profile *appstaff.ProfileUseCase,
) *StaffHandler {
	return &StaffHandler{
		register: register,
		login:    login,
		logout:   logout,
		refresh:  refresh,
		profile:  profile,
	}
}

// Register 员工注册
// @Summary      员工注册
// @Description  第一个账号为ADMIN；之后只有管理员可以指定role，其他情况一律为CLERK
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appstaff.StaffDTO}
// @Failure      400 {object} response.Response "邮箱已存在"
// @Router       /api/v1/staff/register [post]
func (h *StaffHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	role := ""
	if middleware.GetRole(c) == string(staff.RoleAdmin) {
		role = req.Role
	}

	result, err := h.register.Execute(c.Request.Context(), appstaff.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Login 员工登录
// @Summary      员工登录
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appstaff.LoginResponse}
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/staff/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.login.Execute(c.Request.Context(), appstaff.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Logout 登出：删除会话并吊销当前Access Token
// @Summary      员工登出
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/staff/logout [post]
func (h *StaffHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	if fail(c, h.logout.Execute(c.Request.Context(), claims, middleware.GetToken(c))) {
		return
	}
	response.Success(c, nil)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appstaff.RefreshResponse}
// @Failure      401 {object} response.Response "会话已失效"
// @Router       /api/v1/staff/refresh [post]
func (h *StaffHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.refresh.Execute(c.Request.Context(), req.RefreshToken)
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}

// Profile 当前登录员工
// @Summary      当前员工信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appstaff.StaffDTO}
// @Router       /api/v1/staff/profile [get]
func (h *StaffHandler) Profile(c *gin.Context) {
	result, err := h.profile.Execute(c.Request.Context(), middleware.GetStaffID(c))
	if fail(c, err) {
		return
	}
	response.Success(c, result)
}
