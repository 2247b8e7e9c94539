package mysql

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储（已保存报表与自定义模板）
func NewReportRepository(db *gorm.DB) report.Repository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Save(ctx context.Context, sr *report.StoredReport) error {
	model := &ReportModel{
		ID:         sr.ID,
		Name:       sr.Name,
		ReportType: sr.ReportType,
		Status:     sr.Status,
		Parameters: sr.Parameters,
		StartDate:  sr.StartDate,
		EndDate:    sr.EndDate,
		Content:    string(sr.Content),
		CreatedBy:  sr.CreatedBy,
		CreatedAt:  sr.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "保存报表失败")
	}
	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id string) (*report.StoredReport, error) {
	var m ReportModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, apperrors.Wrap(err, "查询报表失败")
	}
	return &report.StoredReport{
		ID:         m.ID,
		Name:       m.Name,
		ReportType: m.ReportType,
		Status:     m.Status,
		Parameters: m.Parameters,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Content:    json.RawMessage(m.Content),
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&ReportModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除报表失败")
	}
	if result.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *reportRepository) SaveTemplate(ctx context.Context, t *report.Template) error {
	model := &ReportTemplateModel{
		Code:               t.Code,
		Name:               t.Name,
		Description:        t.Description,
		ReportType:         t.ReportType,
		Parameters:         t.Parameters,
		VisualizationTypes: t.VisualizationTypes,
		CreatedAt:          t.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return report.ErrTemplateDuplicate
		}
		return apperrors.Wrap(err, "保存报表模板失败")
	}
	t.ID = model.ID
	return nil
}

func (r *reportRepository) ListTemplates(ctx context.Context) ([]*report.Template, error) {
	var models []ReportTemplateModel
	if err := dbFrom(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询报表模板失败")
	}
	out := make([]*report.Template, len(models))
	for i, m := range models {
		out[i] = &report.Template{
			ID:                 m.ID,
			Code:               m.Code,
			Name:               m.Name,
			Description:        m.Description,
			ReportType:         m.ReportType,
			Parameters:         m.Parameters,
			VisualizationTypes: m.VisualizationTypes,
			CreatedAt:          m.CreatedAt,
		}
	}
	return out, nil
}
