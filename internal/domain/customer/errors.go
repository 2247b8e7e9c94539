package customer

import (
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "顾客不存在")
	ErrEmailDuplicate   = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被其他顾客使用")
	ErrInvalidName      = apperrors.New(apperrors.ErrCodeInvalidParams, "顾客姓名不能为空")
	ErrInvalidEmail     = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidType      = apperrors.New(apperrors.ErrCodeInvalidParams, "顾客类型必须是INDIVIDUAL、CORPORATE或STUDENT")
	ErrInvalidStatus    = apperrors.New(apperrors.ErrCodeInvalidParams, "顾客状态必须是ACTIVE、INACTIVE或DELETED")
	ErrCompanyRequired  = apperrors.New(apperrors.ErrCodeInvalidParams, "企业顾客必须填写公司名称")
)
