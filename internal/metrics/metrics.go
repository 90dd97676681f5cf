// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやハンドラー層から利用する。
type MetricsCollector interface {
	RecordLogin(role string)
	RecordLoginFailure(reason string)
	RecordLogout()
	RecordGuardDecision(decision string)
	RecordShipmentMutation(operation string)
	RecordMemberMutation(kind, operation string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins            *prometheus.CounterVec
	loginFailures     *prometheus.CounterVec
	logouts           prometheus.Counter
	guardDecisions    *prometheus.CounterVec
	shipmentMutations *prometheus.CounterVec
	memberMutations   *prometheus.CounterVec
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_logins_total",
			Help: "ロール別のサインイン成功数",
		}, []string{"role"}),
		loginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_login_failures_total",
			Help: "理由別のサインイン失敗数",
		}, []string{"reason"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courierpro_logouts_total",
			Help: "サインアウトの合計数",
		}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_guard_decisions_total",
			Help: "アクセス判定の結果別の件数",
		}, []string{"decision"}),
		shipmentMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_shipment_mutations_total",
			Help: "操作別の配送レコード変更数",
		}, []string{"operation"}),
		memberMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_member_mutations_total",
			Help: "種別（agent, customer）と操作別の名簿変更数",
		}, []string{"kind", "operation"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courierpro_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courierpro_request_latency_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.logins,
		c.loginFailures,
		c.logouts,
		c.guardDecisions,
		c.shipmentMutations,
		c.memberMutations,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordLogin はサインイン成功を記録する。
func (c *Collector) RecordLogin(role string) {
	c.logins.WithLabelValues(role).Inc()
}

// RecordLoginFailure はサインイン失敗を記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailures.WithLabelValues(reason).Inc()
}

// RecordLogout はサインアウトを記録する。
func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

// RecordGuardDecision はアクセス判定の結果を記録する。
func (c *Collector) RecordGuardDecision(decision string) {
	c.guardDecisions.WithLabelValues(decision).Inc()
}

// RecordShipmentMutation は配送レコードの作成・更新・削除を記録する。
func (c *Collector) RecordShipmentMutation(operation string) {
	c.shipmentMutations.WithLabelValues(operation).Inc()
}

// RecordMemberMutation はエージェント・顧客の作成・更新・削除を記録する。
func (c *Collector) RecordMemberMutation(kind, operation string) {
	c.memberMutations.WithLabelValues(kind, operation).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
