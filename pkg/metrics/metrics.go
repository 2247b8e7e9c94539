// Package metrics Prometheus指标
//
// 所有指标在InitMetrics中通过promauto注册到默认Registry，由/metrics端点暴露。
// 未初始化时各辅助函数为空操作，use case单元测试无需关心指标。
//
// 命名规范：
//   - Counter以_total结尾
//   - Histogram以单位结尾（_seconds）
//   - 标签只使用有限取值（method、status、type），不要使用订单号、图书ID等高基数字段
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "techbookstore"

var (
	initOnce sync.Once
	// initialized 在register结束时置位，辅助函数据此判断是否记录
	initialized bool

	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 订单
	// 标签：type（ONLINE/WALK_IN/PHONE）
	OrdersCreatedTotal *prometheus.CounterVec
	// 标签：from、to（订单状态）
	OrderTransitionsTotal *prometheus.CounterVec
	// 标签：reason（insufficient_stock/invalid_status/internal）
	OrderConfirmFailedTotal *prometheus.CounterVec
	OrderConfirmDuration    prometheus.Histogram

	// 库存流水
	// 标签：type（RECEIVE/SELL/ADJUST/RESERVE/RELEASE）
	StockMovementsTotal *prometheus.CounterVec
	StockUnitsMoved     *prometheus.CounterVec

	// 报表缓存
	// 标签：report（sales/inventory/customers/tech_trends/dashboard/custom）
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	// 标签：backend（redis/memory）
	CacheErrorsTotal *prometheus.CounterVec

	ReportBuildDuration *prometheus.HistogramVec

	// 熔断器
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec
	// 标签：result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 批处理（Saga）
	// 标签：batch_type（daily/weekly/monthly）、result（success/failure）
	BatchExecutionsTotal   *prometheus.CounterVec
	BatchExecutionDuration prometheus.Histogram
	SagaCompensationsTotal prometheus.Counter

	// 消息
	MessagesPublishedTotal    *prometheus.CounterVec
	MessagesConsumedTotal     *prometheus.CounterVec
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册全部指标（重复调用只生效一次）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP请求耗时（秒）",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_progress",
		Help:      "正在处理的HTTP请求数",
	})

	OrdersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "订单创建总数",
	}, []string{"type"})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "订单状态流转次数",
	}, []string{"from", "to"})

	OrderConfirmFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_confirm_failed_total",
		Help:      "订单确认失败次数",
	}, []string{"reason"})

	OrderConfirmDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_confirm_duration_seconds",
		Help:      "订单确认（库存预留）耗时（秒）",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	StockMovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "库存流水条数",
	}, []string{"type"})

	StockUnitsMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_units_moved_total",
		Help:      "库存变动数量（绝对值）",
	}, []string{"type"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_hits_total",
		Help:      "报表缓存命中次数",
	}, []string{"report"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_misses_total",
		Help:      "报表缓存未命中次数",
	}, []string{"report"})

	CacheErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_errors_total",
		Help:      "缓存后端错误次数",
	}, []string{"backend"})

	ReportBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_build_duration_seconds",
		Help:      "报表聚合耗时（秒，不含缓存命中）",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"report"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
	}, []string{"name"})

	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_requests_total",
		Help:      "熔断器请求总数",
	}, []string{"name", "result"})

	BatchExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_batch_executions_total",
		Help:      "报表批处理执行次数",
	}, []string{"batch_type", "result"})

	BatchExecutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_batch_duration_seconds",
		Help:      "报表批处理耗时（秒）",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
	})

	SagaCompensationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_compensations_total",
		Help:      "Saga补偿执行次数",
	})

	MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "消息发布总数",
	}, []string{"exchange", "routing_key", "result"})

	MessagesConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_consumed_total",
		Help:      "消息消费总数",
	}, []string{"queue", "result"})

	MessageProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "message_processing_duration_seconds",
		Help:      "消息处理耗时（秒）",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
	})

	initialized = true
}

// =========================================
// 辅助函数（未初始化时为空操作）
// =========================================

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if !initialized {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// TrackInFlight 请求开始时调用，返回值在请求结束时调用
func TrackInFlight() func() {
	if !initialized {
		return func() {}
	}
	HTTPRequestsInProgress.Inc()
	return HTTPRequestsInProgress.Dec
}

// OrderCreated 订单创建成功
func OrderCreated(orderType string) {
	if !initialized {
		return
	}
	OrdersCreatedTotal.WithLabelValues(orderType).Inc()
}

// OrderTransitioned 订单状态变更
func OrderTransitioned(from, to string) {
	if !initialized {
		return
	}
	OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}

// OrderConfirmFailed 订单确认失败
func OrderConfirmFailed(reason string) {
	if !initialized {
		return
	}
	OrderConfirmFailedTotal.WithLabelValues(reason).Inc()
}

// ObserveOrderConfirm 记录库存预留耗时
func ObserveOrderConfirm(elapsed time.Duration) {
	if !initialized {
		return
	}
	OrderConfirmDuration.Observe(elapsed.Seconds())
}

// StockMoved 记录一条库存流水
func StockMoved(movementType string, delta int) {
	if !initialized {
		return
	}
	if delta < 0 {
		delta = -delta
	}
	StockMovementsTotal.WithLabelValues(movementType).Inc()
	StockUnitsMoved.WithLabelValues(movementType).Add(float64(delta))
}

// CacheHit 报表缓存命中
func CacheHit(report string) {
	if !initialized {
		return
	}
	CacheHitsTotal.WithLabelValues(report).Inc()
}

// CacheMiss 报表缓存未命中
func CacheMiss(report string) {
	if !initialized {
		return
	}
	CacheMissesTotal.WithLabelValues(report).Inc()
}

// CacheError 缓存后端错误
func CacheError(backend string) {
	if !initialized {
		return
	}
	CacheErrorsTotal.WithLabelValues(backend).Inc()
}

// ObserveReportBuild 记录报表聚合耗时
func ObserveReportBuild(report string, elapsed time.Duration) {
	if !initialized {
		return
	}
	ReportBuildDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}

// SetCircuitBreakerState 记录熔断器状态（0/1/2）
func SetCircuitBreakerState(name string, state int) {
	if !initialized {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// CircuitBreakerRequest 记录熔断器请求结果（success/failure/rejected）
func CircuitBreakerRequest(name, result string) {
	if !initialized {
		return
	}
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// BatchExecuted 记录一次报表批处理
func BatchExecuted(batchType string, success bool, elapsed time.Duration) {
	if !initialized {
		return
	}
	BatchExecutionsTotal.WithLabelValues(batchType, result(success)).Inc()
	BatchExecutionDuration.Observe(elapsed.Seconds())
}

// SagaCompensated 记录一次补偿
func SagaCompensated() {
	if !initialized {
		return
	}
	SagaCompensationsTotal.Inc()
}

// MessagePublished 记录消息发布
func MessagePublished(exchange, routingKey string, success bool) {
	if !initialized {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result(success)).Inc()
}

// MessageConsumed 记录消息消费
func MessageConsumed(queue string, success bool, elapsed time.Duration) {
	if !initialized {
		return
	}
	MessagesConsumedTotal.WithLabelValues(queue, result(success)).Inc()
	MessageProcessingDuration.Observe(elapsed.Seconds())
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
