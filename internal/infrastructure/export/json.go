package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiebiao/techbookstore/internal/domain/report"
)

type jsonEnvelope struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ReportType string            `json:"reportType"`
	Status     string            `json:"status"`
	Parameters map[string]string `json:"parameters,omitempty"`
	StartDate  *time.Time        `json:"startDate,omitempty"`
	EndDate    *time.Time        `json:"endDate,omitempty"`
	CreatedBy  string            `json:"createdBy,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	Content    json.RawMessage   `json:"content"`
}

func renderJSON(r *report.StoredReport) ([]byte, error) {
	content := r.Content
	if len(content) == 0 {
		content = json.RawMessage("null")
	}
	body, err := json.MarshalIndent(jsonEnvelope{
		ID:         r.ID,
		Name:       r.Name,
		ReportType: r.ReportType,
		Status:     r.Status,
		Parameters: r.Parameters,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		Content:    content,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: 序列化报表失败: %w", err)
	}
	return body, nil
}
