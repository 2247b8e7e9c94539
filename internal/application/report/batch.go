package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/techbookstore/internal/application/event"
	"github.com/xiebiao/techbookstore/internal/domain/report"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
	"github.com/xiebiao/techbookstore/pkg/metrics"
	"github.com/xiebiao/techbookstore/pkg/saga"
	"github.com/xiebiao/techbookstore/pkg/tracing"
)

// 批处理类型
const (
	BatchDaily   = "daily"
	BatchWeekly  = "weekly"
	BatchMonthly = "monthly"
)

const batchTimeout = 30 * time.Second

// BatchResult 批处理结果
type BatchResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ReportID  string `json:"reportId"`
}

// BatchPeriod 批处理统计区间：daily昨天，weekly截至昨天的7天，monthly上个自然月
func BatchPeriod(batchType string, now time.Time) (report.DateRange, error) {
	yesterday := report.LastDays(1, now.AddDate(0, 0, -1))
	switch batchType {
	case BatchDaily:
		return yesterday, nil
	case BatchWeekly:
		return report.LastDays(7, yesterday.End), nil
	case BatchMonthly:
		thisMonth := report.MonthToDate(now).Start
		return report.DateRange{Start: thisMonth.AddDate(0, -1, 0), End: thisMonth.AddDate(0, 0, -1)}, nil
	}
	return report.DateRange{}, report.ErrInvalidBatchType
}

// RunBatch 生成周期销售报表：计算 → 保存 → 刷新缓存 → 发布事件
// 任一步失败时删除已保存的报表并淘汰写入的缓存
func (s *Service) RunBatch(ctx context.Context, batchType, createdBy string) (result *BatchResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RunBatch")
	defer func() { tracing.End(span, err) }()

	batchType = strings.ToLower(strings.TrimSpace(batchType))
	now := s.now()
	r, err := BatchPeriod(batchType, now)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.logger.With().Str("run_id", runID).Str("batch_type", batchType).Logger()
	key := salesKey(r, "")

	var (
		rep    report.SalesReport
		stored *report.StoredReport
	)
	sg := saga.NewSaga("report-batch-"+batchType, batchTimeout, saga.WithLogger(log))
	sg.AddStep("compute", func(ctx context.Context) error {
		var err error
		rep, err = s.buildSales(ctx, r, "", defaultRankLimit)
		return err
	}, nil)
	sg.AddStep("persist", func(ctx context.Context) error {
		params := map[string]string{"batchType": batchType, "runId": runID}
		name := fmt.Sprintf("%s sales %s~%s", batchType, r.StartString(), r.EndString())
		var err error
		if stored, err = report.NewStoredReport(name, report.TypeBatchSales, params, &r, rep, createdBy, now); err != nil {
			return err
		}
		return s.reports.Save(ctx, stored)
	}, func(ctx context.Context) error {
		if stored == nil {
			return nil
		}
		return s.reports.Delete(ctx, stored.ID)
	})
	sg.AddStep("refresh-cache", func(ctx context.Context) error {
		return s.cache.Set(ctx, key, rep, s.ttl.Sales)
	}, func(ctx context.Context) error {
		return s.cache.Delete(ctx, key)
	})
	sg.AddStep("publish", func(ctx context.Context) error {
		if s.publisher == nil {
			return nil
		}
		return s.publisher.Publish(ctx, event.ReportBatchCompleted, event.BatchEvent{
			RunID:      runID,
			BatchType:  batchType,
			ReportID:   stored.ID,
			StartDate:  r.StartString(),
			EndDate:    r.EndString(),
			OccurredAt: now,
		})
	}, nil)

	start := time.Now()
	if err := sg.Execute(ctx); err != nil {
		metrics.BatchExecuted(batchType, false, time.Since(start))
		if sg.Compensated() {
			metrics.SagaCompensated()
		}
		step, _ := saga.FailedStep(err)
		log.Error().Err(err).Str("step", step).Msg("报表批处理失败")
		return nil, apperrors.Wrapf(err, "Batch execution failed: %s", step)
	}

	metrics.BatchExecuted(batchType, true, time.Since(start))
	log.Info().Str("report_id", stored.ID).Str("start", r.StartString()).Str("end", r.EndString()).Msg("报表批处理完成")
	return &BatchResult{
		Status:    "SUCCESS",
		Message:   fmt.Sprintf("Batch %s executed successfully", batchType),
		Timestamp: now.Format(time.DateOnly),
		ReportID:  stored.ID,
	}, nil
}
