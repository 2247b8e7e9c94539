// Package dto HTTP请求结构（binding标签由gin校验）
//
// 响应直接使用application层的DTO，这里只定义入参。
package dto

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// DateLayout 请求中的日期格式
const DateLayout = "2006-01-02"

// PageQuery 分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"size" binding:"omitempty,min=1,max=100" example:"10"`
}

// ParseDate 解析yyyy-MM-dd（本地时区），空串返回nil
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return nil, apperrors.ErrInvalidParams.WithMessage(field + "格式应为yyyy-MM-dd")
	}
	return &t, nil
}

// RequireDate 必填日期
func RequireDate(field, value string) (time.Time, error) {
	t, err := ParseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, apperrors.ErrInvalidParams.WithMessage(field + "不能为空")
	}
	return *t, nil
}

// ParseIDs 解析逗号分隔的ID列表（?bookIds=1,2,3）
func ParseIDs(field, value string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, apperrors.ErrInvalidParams.WithMessage(field + "包含无效的ID: " + part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
