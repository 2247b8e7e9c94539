// Package export 已保存报表的导出（PDF、CSV、JSON）
package export

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xiebiao/techbookstore/internal/domain/report"
)

// Exporter 实现report.Exporter
type Exporter struct {
	printer *message.Printer
}

var _ report.Exporter = (*Exporter)(nil)

// NewExporter locale为空时按日语习惯格式化数字（千分位逗号）
func NewExporter(locale string) *Exporter {
	tag := language.Japanese
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &Exporter{printer: message.NewPrinter(tag)}
}

func (e *Exporter) Export(ctx context.Context, r *report.StoredReport, format string) (*report.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case report.FormatJSON:
		body, err := renderJSON(r)
		if err != nil {
			return nil, err
		}
		return &report.File{Filename: filename(r, "json"), ContentType: "application/json", Body: body}, nil
	case report.FormatCSV:
		doc, err := flatten(r, e.printer)
		if err != nil {
			return nil, err
		}
		body, err := renderCSV(doc)
		if err != nil {
			return nil, err
		}
		return &report.File{Filename: filename(r, "csv"), ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case report.FormatPDF:
		doc, err := flatten(r, e.printer)
		if err != nil {
			return nil, err
		}
		body, err := renderPDF(doc)
		if err != nil {
			return nil, err
		}
		return &report.File{Filename: filename(r, "pdf"), ContentType: "application/pdf", Body: body}, nil
	case report.FormatExcel:
		return nil, report.ErrUnsupportedFormat.WithMessage("暂不支持EXCEL导出，请使用CSV")
	}
	return nil, report.ErrUnsupportedFormat.WithMessage("不支持的导出格式: " + format)
}

// filename sales-1a2b3c4d.csv
func filename(r *report.StoredReport, ext string) string {
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	kind := strings.ToLower(strings.ReplaceAll(r.ReportType, "_", "-"))
	if kind == "" {
		kind = "report"
	}
	return fmt.Sprintf("%s-%s.%s", kind, id, ext)
}
