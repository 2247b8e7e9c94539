package staff

import (
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrStaffNotFound  = apperrors.New(apperrors.ErrCodeStaffNotFound, "员工不存在")
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrInvalidEmail   = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidName    = apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-50个字符")
	ErrInvalidRole    = apperrors.New(apperrors.ErrCodeInvalidParams, "角色必须是ADMIN或CLERK")
	ErrWeakPassword   = apperrors.New(apperrors.ErrCodeWeakPassword, "密码需8-20位且同时包含字母和数字")
)
