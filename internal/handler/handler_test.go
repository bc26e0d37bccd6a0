package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// --- テスト用ヘルパー ---

func newTestRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.New()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	return r
}

// withURLParam はchiのルートコンテキストにURLパラメータを設定する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withUser は認証済みユーザーをリクエストコンテキストに注入する。
func withUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(middleware.ContextWithUser(r.Context(), user))
}

// countingMetrics は呼び出し回数を数えるMetricsRecorder。
type countingMetrics struct {
	signups        int
	logins         int
	recipesCreated int
	ratings        int
	searches       int
}

var _ MetricsRecorder = (*countingMetrics)(nil)

func (m *countingMetrics) RecordSignup()        { m.signups++ }
func (m *countingMetrics) RecordLogin()         { m.logins++ }
func (m *countingMetrics) RecordRecipeCreated() { m.recipesCreated++ }
func (m *countingMetrics) RecordRating()        { m.ratings++ }
func (m *countingMetrics) RecordSearch()        { m.searches++ }
