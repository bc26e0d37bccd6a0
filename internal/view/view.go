// Package view はhtml/templateによるページレンダリングを提供する。
// テンプレートはバイナリに埋め込まれる。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ページテンプレートの一覧。各ページはlayout.htmlと組で解析される。
var pages = []string{
	"login.html",
	"signup.html",
	"home.html",
	"menu.html",
	"recipe.html",
	"create_recipe.html",
	"add.html",
	"edit.html",
	"delete.html",
	"search.html",
	"profile.html",
	"error.html",
}

// Renderer は解析済みテンプレートを保持し、ページを描画する。
type Renderer struct {
	templates map[string]*template.Template
}

// New は埋め込みテンプレートを解析してRendererを生成する。
func New() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render は指定ページをレンダリングする。
// テンプレート実行エラー時は書きかけのレスポンスを避けるため、
// 一度バッファに描画してから書き出す。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.templates[page]
	if !ok {
		slog.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ErrorData はエラーページに渡すデータ。
type ErrorData struct {
	Status  int
	Message string
}

// RenderNotFound は404ページをレンダリングする。
func (r *Renderer) RenderNotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Page not found."
	}
	r.Render(w, http.StatusNotFound, "error.html", ErrorData{
		Status:  http.StatusNotFound,
		Message: message,
	})
}

// RenderServerError は500ページをレンダリングする。
func (r *Renderer) RenderServerError(w http.ResponseWriter) {
	r.Render(w, http.StatusInternalServerError, "error.html", ErrorData{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again later.",
	})
}
