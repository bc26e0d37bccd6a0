package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Signup(ctx context.Context, email, username, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はログイン・サインアップ・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	config   AuthHandlerConfig
	renderer *view.Renderer
	metrics  MetricsRecorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, renderer *view.Renderer, metrics MetricsRecorder) *AuthHandler {
	return &AuthHandler{
		service:  service,
		config:   config,
		renderer: renderer,
		metrics:  orNoopMetrics(metrics),
	}
}

// loginPageData はログインページのテンプレートデータ。
type loginPageData struct {
	Error string
}

// signupPageData はサインアップページのテンプレートデータ。
// 検証エラー時に入力済みの値を再表示する（パスワードは再表示しない）。
type signupPageData struct {
	Error    string
	Email    string
	Username string
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", loginPageData{})
}

// Login はログインフォームの送信を処理する。
// 認証成功時はセッションCookieを設定してホームへリダイレクトする。
// 失敗時は原因を区別しない汎用メッセージでフォームを再表示する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	session, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderer.Render(w, http.StatusOK, "login.html", loginPageData{Error: appErr.Message})
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}

	h.setSessionCookie(w, session.ID)
	h.metrics.RecordLogin()
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignupForm はサインアップフォームを表示する。
// GET /signup
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "signup.html", signupPageData{})
}

// Signup はサインアップフォームの送信を処理する。
// 成功時はログインページへリダイレクトする（自動ログインはしない）。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.service.Signup(r.Context(), email, username, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderer.Render(w, http.StatusOK, "signup.html", signupPageData{
				Error:    appErr.Message,
				Email:    email,
				Username: username,
			})
			return
		}
		slog.Error("signup failed", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}

	h.metrics.RecordSignup()
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Logout はセッションを破棄し、ログインページへリダイレクトする。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// setSessionCookie はセッションCookieを設定する（HTTP Only）。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieをクリアする。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
