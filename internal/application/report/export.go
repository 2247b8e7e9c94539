package report

import (
	"context"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

// Export 导出已保存的报表
func (s *Service) Export(ctx context.Context, reportID, format string) (file *report.File, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ExportReport")
	defer func() { tracing.End(span, err) }()

	f, err := report.NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	stored, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	file, err = s.exporter.Export(ctx, stored, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("report_id", reportID).Str("format", f).Int("bytes", len(file.Body)).Msg("报表已导出")
	return file, nil
}
