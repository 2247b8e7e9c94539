// Package saga 顺序执行的Saga：按顺序执行各步骤，某步失败时逆序执行已完成步骤的补偿
//
// 报表批处理用它串联"计算报表 → 持久化 → 刷新缓存 → 发布事件"，
// 任一步失败都会撤销已持久化的报表和已写入的缓存。
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Step Saga中的一个步骤
// Compensate必须幂等（补偿可能因重试被多次执行）
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次Saga事务（非并发安全，每次执行新建一个）
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   zerolog.Logger

	compensated      bool
	compensationErrs []error
}

// Option Saga配置项
type Option func(*Saga)

// WithLogger 设置日志（默认丢弃）
func WithLogger(l zerolog.Logger) Option {
	return func(s *Saga) { s.logger = l }
}

// NewSaga 创建Saga
//
//	s := saga.NewSaga("report-batch-daily", 30*time.Second)
//	s.AddStep("persist", persist, deleteStored)
//	err := s.Execute(ctx)
func NewSaga(name string, timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{
		name:    name,
		timeout: timeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤，compensate可为nil（只读步骤无需补偿）
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Execute 按顺序执行所有步骤
// 失败（或超时）时补偿已完成的步骤并返回StepError
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			return &StepError{Saga: s.name, Index: i, Step: step.Name, Err: fmt.Errorf("saga超时: %w", err)}
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.logger.Warn().Err(err).Str("saga", s.name).Str("step", step.Name).Msg("saga步骤失败，开始补偿")
				// 补偿不受原ctx超时影响
				s.compensate(context.WithoutCancel(ctx))
				return &StepError{Saga: s.name, Index: i, Step: step.Name, Err: err}
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// CompensationErrors 最近一次补偿中失败的补偿操作
func (s *Saga) CompensationErrors() []error {
	return s.compensationErrs
}

// Compensated 最近一次执行是否发生过补偿
func (s *Saga) Compensated() bool {
	return s.compensated
}

func (s *Saga) compensate(ctx context.Context) {
	s.compensated = true
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			// 继续补偿其余步骤，失败项需人工介入
			s.compensationErrs = append(s.compensationErrs, fmt.Errorf("compensate %s: %w", step.Name, err))
			s.logger.Error().Err(err).Str("saga", s.name).Str("step", step.Name).Msg("saga补偿失败")
			continue
		}
		s.logger.Info().Str("saga", s.name).Str("step", step.Name).Msg("saga步骤已补偿")
	}
	s.executed = nil
}

// StepError 步骤执行失败
type StepError struct {
	Saga  string
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("saga %s 步骤[%d:%s]执行失败: %v", e.Saga, e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep 从错误中取出失败的步骤名
func FailedStep(err error) (string, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
