package book

import (
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrBookNotFound      = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrISBNDuplicate     = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN已存在")
	ErrInvalidISBN       = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN-13格式不正确")
	ErrInvalidTitle      = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrInvalidPrice      = apperrors.New(apperrors.ErrCodeInvalidParams, "售价必须大于0，定价不能为负数")
	ErrInvalidLevel      = apperrors.New(apperrors.ErrCodeInvalidParams, "技术难度必须是BEGINNER、INTERMEDIATE或ADVANCED")
	ErrInvalidParams     = apperrors.New(apperrors.ErrCodeInvalidParams, "页数和版次不能为负数")
	ErrBookInUse         = apperrors.New(apperrors.ErrCodeBookInUse, "图书已有订单引用，不能删除")
	ErrCategoryNotFound  = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类编码已存在")
)
