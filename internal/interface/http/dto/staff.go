package dto

// RegisterRequest 员工注册
// role只有管理员登录后才能指定，匿名注册一律为CLERK（系统第一个账号为ADMIN）
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"tanaka@techbookstore.jp"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"Passw0rd"`
	Name     string `json:"name" binding:"required,min=2,max=50" example:"田中"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN CLERK"`
}

// LoginRequest 员工登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
