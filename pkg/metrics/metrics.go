// Package metrics 定义 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 业务与 HTTP 指标集合
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	SessionEvents   *prometheus.CounterVec
	SessionHours    prometheus.Histogram
	AssignmentMoves *prometheus.CounterVec
	BroadcastSends  *prometheus.CounterVec
}

// New 创建并注册全部指标
// 每次调用使用独立 Registry，测试中可重复创建
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sc",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc",
			Name:      "training_session_events_total",
			Help:      "训练签到/签退事件数",
		}, []string{"event", "result"}),
		SessionHours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sc",
			Name:      "training_session_hours",
			Help:      "单次训练时长（小时）",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 6, 8, 12},
		}),
		AssignmentMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc",
			Name:      "assignment_transitions_total",
			Help:      "培训分配状态迁移次数",
		}, []string{"to"}),
		BroadcastSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc",
			Name:      "broadcast_sends_total",
			Help:      "广播推送发送结果",
		}, []string{"result"}),
	}

	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPLatency,
		m.SessionEvents,
		m.SessionHours,
		m.AssignmentMoves,
		m.BroadcastSends,
	)

	return m
}

// SessionEvent 记录签到/签退结果；m 为 nil 时忽略
func (m *Metrics) SessionEvent(event, result string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(event, result).Inc()
}

// ObserveSessionHours 记录一次签退的训练时长
func (m *Metrics) ObserveSessionHours(hours float64) {
	if m == nil {
		return
	}
	m.SessionHours.Observe(hours)
}

// AssignmentTransition 记录分配状态迁移
func (m *Metrics) AssignmentTransition(to string) {
	if m == nil {
		return
	}
	m.AssignmentMoves.WithLabelValues(to).Inc()
}

// AssignmentTransitions 批量记录分配状态迁移（定时过期）
func (m *Metrics) AssignmentTransitions(to string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.AssignmentMoves.WithLabelValues(to).Add(float64(n))
}

// BroadcastResult 记录广播发送成功/失败数
func (m *Metrics) BroadcastResult(sent, failed int) {
	if m == nil {
		return
	}
	m.BroadcastSends.WithLabelValues("sent").Add(float64(sent))
	m.BroadcastSends.WithLabelValues("failed").Add(float64(failed))
}
