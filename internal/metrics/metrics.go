// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
)

// Collector はアプリケーションメトリクスを収集する。
type Collector struct {
	signups        prometheus.Counter
	logins         prometheus.Counter
	recipesCreated prometheus.Counter
	ratings        prometheus.Counter
	searches       prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letthemcook_signups_total",
			Help: "ユーザー登録成功の合計数",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letthemcook_logins_total",
			Help: "ログイン成功の合計数",
		}),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letthemcook_recipes_created_total",
			Help: "作成されたレシピの合計数",
		}),
		ratings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letthemcook_ratings_total",
			Help: "登録された評価の合計数",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letthemcook_searches_total",
			Help: "実行された検索の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "letthemcook_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "letthemcook_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.recipesCreated,
		c.ratings,
		c.searches,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignup はユーザー登録成功を記録する。
func (c *Collector) RecordSignup() { c.signups.Inc() }

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() { c.logins.Inc() }

// RecordRecipeCreated はレシピ作成を記録する。
func (c *Collector) RecordRecipeCreated() { c.recipesCreated.Inc() }

// RecordRating は評価登録を記録する。
func (c *Collector) RecordRating() { c.ratings.Inc() }

// RecordSearch は検索実行を記録する。
func (c *Collector) RecordSearch() { c.searches.Inc() }

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// HTTPMiddleware は全リクエストのステータスコードとレイテンシを記録するミドルウェアを返す。
func (c *Collector) HTTPMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec, status := middleware.StatusRecorder(w)

			next.ServeHTTP(rec, r)

			c.RecordHTTPStatus(status())
			c.RecordRequestLatency(time.Since(start))
		})
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
