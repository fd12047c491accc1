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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordChatRequest()
	RecordCompletionSuccess()
	RecordCompletionFailure()
	RecordFallback()
	RecordHTTPStatus(statusCode int)
	RecordCompletionLatency(duration time.Duration)
	RecordStreamFrames(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	chatRequests      prometheus.Counter
	completionSuccess prometheus.Counter
	completionFail    prometheus.Counter
	fallbacks         prometheus.Counter
	httpStatus        *prometheus.CounterVec
	completionLatency prometheus.Histogram
	streamFrames      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		chatRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_chat_requests_total",
			Help: "チャットリクエストの合計数",
		}),
		completionSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_completion_success_total",
			Help: "上流補完API呼び出し成功の合計数",
		}),
		completionFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_completion_fail_total",
			Help: "上流補完API呼び出し失敗の合計数",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_fallback_total",
			Help: "ローカル応答へのフォールバック発生の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatman_completion_latency_seconds",
			Help:    "応答生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		streamFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_stream_frames_total",
			Help: "配信したストリームフレームの合計数",
		}),
	}

	reg.MustRegister(
		c.chatRequests,
		c.completionSuccess,
		c.completionFail,
		c.fallbacks,
		c.httpStatus,
		c.completionLatency,
		c.streamFrames,
	)

	return c
}

// RecordChatRequest はチャットリクエストの受信を記録する。
func (c *Collector) RecordChatRequest() {
	c.chatRequests.Inc()
}

// RecordCompletionSuccess は上流補完API呼び出しの成功を記録する。
func (c *Collector) RecordCompletionSuccess() {
	c.completionSuccess.Inc()
}

// RecordCompletionFailure は上流補完API呼び出しの失敗を記録する。
func (c *Collector) RecordCompletionFailure() {
	c.completionFail.Inc()
}

// RecordFallback はローカル応答へのフォールバックを記録する。
func (c *Collector) RecordFallback() {
	c.fallbacks.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordCompletionLatency は応答生成のレイテンシを記録する。
func (c *Collector) RecordCompletionLatency(duration time.Duration) {
	c.completionLatency.Observe(duration.Seconds())
}

// RecordStreamFrames は配信したストリームフレーム数を記録する。
func (c *Collector) RecordStreamFrames(count int) {
	c.streamFrames.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
