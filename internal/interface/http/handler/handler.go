// Package handler HTTP处理器：绑定参数 → 调用application层 → 写统一响应
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/response"
)

// bindJSON 绑定请求体，失败时已写入40900响应
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return false
	}
	return true
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return false
	}
	return true
}

// pathID 解析路径中的正整数ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// fail 写错误响应，err为nil时返回false
func fail(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	response.Error(c, err)
	return true
}
