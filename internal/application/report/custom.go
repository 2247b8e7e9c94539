package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
)

// 自定义报表字段长度上限
const (
	maxReportTypeLen = 50
	maxCategoryLen   = 100
	maxParametersLen = 500
	maxNameLen       = 200
	defaultDays      = 30
)

// CustomRequest 自定义销售报表
type CustomRequest struct {
	ReportType string
	StartDate  time.Time
	EndDate    time.Time
	Category   string
	Parameters string
}

func (r CustomRequest) validate() error {
	switch {
	case strings.TrimSpace(r.ReportType) == "":
		return report.ErrInvalidParams.WithMessage("reportType不能为空")
	case utf8.RuneCountInString(r.ReportType) > maxReportTypeLen:
		return report.ErrInvalidParams.WithMessage("reportType不能超过50个字符")
	case utf8.RuneCountInString(r.Category) > maxCategoryLen:
		return report.ErrInvalidParams.WithMessage("category不能超过100个字符")
	case utf8.RuneCountInString(r.Parameters) > maxParametersLen:
		return report.ErrInvalidParams.WithMessage("parameters不能超过500个字符")
	}
	return nil
}

// Custom 按分类过滤的销售报表
func (s *Service) Custom(ctx context.Context, req CustomRequest) (*report.SalesReport, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	r, err := report.NewDateRange(req.StartDate, req.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	category := normalizeCategory(req.Category)
	reportType := strings.ToUpper(strings.TrimSpace(req.ReportType))

	key := cache.Key(PrefixCustom, reportType, r.StartString(), r.EndString(), category)
	rep, err := cache.Remember(ctx, s.cache, "custom", key, s.ttl.Custom, func(ctx context.Context) (report.SalesReport, error) {
		return s.buildSales(ctx, r, category, defaultRankLimit)
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// CreateCustomRequest 新建并保存报表
type CreateCustomRequest struct {
	Name       string
	ReportType string
	StartDate  *time.Time
	EndDate    *time.Time
	Category   string
	Parameters map[string]string
	CreatedBy  string
}

// StoredReportDTO 已保存的报表
type StoredReportDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ReportType string            `json:"reportType"`
	Status     string            `json:"status"`
	Parameters map[string]string `json:"parameters,omitempty"`
	StartDate  string            `json:"startDate,omitempty"`
	EndDate    string            `json:"endDate,omitempty"`
	CreatedBy  string            `json:"createdBy,omitempty"`
	CreatedAt  string            `json:"createdAt"`
	Content    json.RawMessage   `json:"content"`
}

func toStoredDTO(r *report.StoredReport) *StoredReportDTO {
	dto := &StoredReportDTO{
		ID:         r.ID,
		Name:       r.Name,
		ReportType: r.ReportType,
		Status:     r.Status,
		Parameters: r.Parameters,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		Content:    r.Content,
	}
	if r.StartDate != nil {
		dto.StartDate = r.StartDate.Format(time.DateOnly)
	}
	if r.EndDate != nil {
		dto.EndDate = r.EndDate.Format(time.DateOnly)
	}
	return dto
}

// CreateCustomReport 按类型生成报表内容并以UUID保存；未知类型按销售报表处理
func (s *Service) CreateCustomReport(ctx context.Context, req CreateCustomRequest) (*StoredReportDTO, error) {
	if utf8.RuneCountInString(req.Name) > maxNameLen {
		return nil, report.ErrInvalidParams.WithMessage("name不能超过200个字符")
	}
	if utf8.RuneCountInString(req.Category) > maxCategoryLen {
		return nil, report.ErrInvalidParams.WithMessage("category不能超过100个字符")
	}

	now := s.now()
	r := report.LastDays(defaultDays, now)
	if req.StartDate != nil || req.EndDate != nil {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, report.ErrInvalidDateRange.WithMessage("startDate和endDate需要同时提供")
		}
		var err error
		if r, err = report.NewDateRange(*req.StartDate, *req.EndDate, now); err != nil {
			return nil, err
		}
	}
	category := normalizeCategory(req.Category)
	reportType := strings.ToUpper(strings.TrimSpace(req.ReportType))

	var content any
	switch reportType {
	case report.TypeCustomerTechJourney:
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return nil, err
		}
		dd, err := report.DrillDown(reportType, report.DimensionBookLevel, r, report.FilterCategory(lines, category))
		if err != nil {
			return nil, err
		}
		content = dd
	case report.TypeInventoryOptimization:
		in, err := s.loadStock(ctx)
		if err != nil {
			return nil, err
		}
		content = report.BuildTurnoverReport(in.rows, in.units, in.net, category)
	case report.TypeTechTrendForecast:
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return nil, err
		}
		content = report.BuildTechTrends(r, lines)
	case report.TypeSalesByTechCategory:
		rep, err := s.buildSales(ctx, r, category, defaultRankLimit)
		if err != nil {
			return nil, err
		}
		content = rep
	default:
		reportType = report.TypeSales
		rep, err := s.buildSales(ctx, r, category, defaultRankLimit)
		if err != nil {
			return nil, err
		}
		content = rep
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("%s %s~%s", reportType, r.StartString(), r.EndString())
	}
	params := req.Parameters
	if category != "" {
		if params == nil {
			params = map[string]string{}
		}
		params["category"] = category
	}

	stored, err := report.NewStoredReport(name, reportType, params, &r, content, req.CreatedBy, now)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Save(ctx, stored); err != nil {
		return nil, err
	}
	s.logger.Info().Str("report_id", stored.ID).Str("type", reportType).Msg("自定义报表已保存")
	return toStoredDTO(stored), nil
}

// GetStored 查询已保存的报表
func (s *Service) GetStored(ctx context.Context, id string) (*StoredReportDTO, error) {
	r, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStoredDTO(r), nil
}

// TemplateDTO 报表模板
type TemplateDTO struct {
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	ReportType         string   `json:"reportType"`
	Parameters         []string `json:"parameters"`
	VisualizationTypes []string `json:"visualizationTypes"`
	Builtin            bool     `json:"builtin"`
}

func toTemplateDTO(t *report.Template) TemplateDTO {
	return TemplateDTO{
		Code:               t.Code,
		Name:               t.Name,
		Description:        t.Description,
		ReportType:         t.ReportType,
		Parameters:         nonNil(t.Parameters),
		VisualizationTypes: nonNil(t.VisualizationTypes),
		Builtin:            t.Builtin,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Templates 内置模板在前，自定义模板在后
func (s *Service) Templates(ctx context.Context) ([]TemplateDTO, error) {
	saved, err := s.reports.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	builtin := report.BuiltinTemplates()
	out := make([]TemplateDTO, 0, len(builtin)+len(saved))
	for _, t := range builtin {
		out = append(out, toTemplateDTO(t))
	}
	for _, t := range saved {
		out = append(out, toTemplateDTO(t))
	}
	return out, nil
}

// TemplateRequest 保存模板
type TemplateRequest struct {
	Code               string
	Name               string
	Description        string
	ReportType         string
	Parameters         []string
	VisualizationTypes []string
}

// SaveTemplate 保存自定义模板；编码不能与内置模板重复
func (s *Service) SaveTemplate(ctx context.Context, req TemplateRequest) (*TemplateDTO, error) {
	t := &report.Template{
		Code:               strings.ToLower(strings.TrimSpace(req.Code)),
		Name:               strings.TrimSpace(req.Name),
		Description:        strings.TrimSpace(req.Description),
		ReportType:         strings.ToUpper(strings.TrimSpace(req.ReportType)),
		Parameters:         req.Parameters,
		VisualizationTypes: req.VisualizationTypes,
		CreatedAt:          s.now(),
	}
	if t.Code == "" || t.Name == "" {
		return nil, report.ErrInvalidParams.WithMessage("模板编码和名称不能为空")
	}
	if utf8.RuneCountInString(t.ReportType) > maxReportTypeLen {
		return nil, report.ErrInvalidParams.WithMessage("reportType不能超过50个字符")
	}
	if t.ReportType == "" {
		t.ReportType = report.TypeSales
	}
	if report.IsBuiltinCode(t.Code) {
		return nil, report.ErrTemplateDuplicate
	}
	if err := s.reports.SaveTemplate(ctx, t); err != nil {
		return nil, err
	}
	dto := toTemplateDTO(t)
	return &dto, nil
}

// DrillDownRequest 下钻条件；日期为空时取最近30天
type DrillDownRequest struct {
	ReportType string
	Dimension  string
	StartDate  *time.Time
	EndDate    *time.Time
	Category   string
}

// DrillDown 按维度下钻
func (s *Service) DrillDown(ctx context.Context, req DrillDownRequest) (*report.DrillDownResult, error) {
	if strings.TrimSpace(req.ReportType) == "" {
		return nil, report.ErrInvalidParams.WithMessage("reportType不能为空")
	}
	now := s.now()
	r := report.LastDays(defaultDays, now)
	if req.StartDate != nil && req.EndDate != nil {
		var err error
		if r, err = report.NewDateRange(*req.StartDate, *req.EndDate, now); err != nil {
			return nil, err
		}
	}
	dimension := strings.ToLower(strings.TrimSpace(req.Dimension))
	category := normalizeCategory(req.Category)
	reportType := strings.ToUpper(strings.TrimSpace(req.ReportType))

	key := cache.Key(PrefixCustom, "drill-down", reportType, dimension, r.StartString(), r.EndString(), category)
	result, err := cache.Remember(ctx, s.cache, "drill_down", key, s.ttl.Sales, func(ctx context.Context) (report.DrillDownResult, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return report.DrillDownResult{}, err
		}
		return report.DrillDown(reportType, dimension, r, report.FilterCategory(lines, category))
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
