package report

import (
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

var (
	ErrInvalidDateRange  = apperrors.New(apperrors.ErrCodeInvalidDateRange, "日期范围不合法")
	ErrReportNotFound    = apperrors.New(apperrors.ErrCodeReportNotFound, "报表不存在")
	ErrUnsupportedFormat = apperrors.New(apperrors.ErrCodeUnsupportedFormat, "不支持的导出格式")
	ErrInvalidDimension  = apperrors.New(apperrors.ErrCodeInvalidParams, "drillDownDimension必须是tech_category、customer_segment、time_period或book_level")
	ErrInvalidBatchType  = apperrors.New(apperrors.ErrCodeInvalidParams, "batchType必须是daily、weekly或monthly")
	ErrInvalidParams     = apperrors.New(apperrors.ErrCodeInvalidParams, "报表参数不合法")
	ErrTemplateDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "模板编码已存在")
)
