package report

import (
	"context"
	"strings"
)

// File 导出结果
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Exporter 把已保存的报表渲染为指定格式
type Exporter interface {
	Export(ctx context.Context, r *StoredReport, format string) (*File, error)
}

// NormalizeFormat 格式名转大写；未知格式返回ErrUnsupportedFormat
func NormalizeFormat(format string) (string, error) {
	f := strings.ToUpper(strings.TrimSpace(format))
	if f == "" {
		f = FormatPDF
	}
	switch f {
	case FormatPDF, FormatExcel, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", ErrUnsupportedFormat.WithMessage("不支持的导出格式: " + format)
}
