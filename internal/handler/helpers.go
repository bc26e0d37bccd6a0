// Package handler はHTTPハンドラーを提供する。
package handler

import "net/http"

// MetricsRecorder はハンドラーが記録するドメインメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordSignup()
	RecordLogin()
	RecordRecipeCreated()
	RecordRating()
	RecordSearch()
}

// noopMetrics は何も記録しないMetricsRecorder。テストおよび未設定時に使用する。
type noopMetrics struct{}

func (noopMetrics) RecordSignup()        {}
func (noopMetrics) RecordLogin()         {}
func (noopMetrics) RecordRecipeCreated() {}
func (noopMetrics) RecordRating()        {}
func (noopMetrics) RecordSearch()        {}

// orNoopMetrics はnilのMetricsRecorderをnoop実装に差し替える。
func orNoopMetrics(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// redirectBack はRefererがあればそこへ、無ければfallbackへリダイレクトする。
// 保存・解除のようにどのページからでも実行できる操作で使用する。
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	if ref := r.Referer(); ref != "" {
		http.Redirect(w, r, ref, http.StatusFound)
		return
	}
	http.Redirect(w, r, fallback, http.StatusFound)
}
