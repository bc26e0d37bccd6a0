package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// Pinger はヘルスチェックで使うデータストアの疎通確認インターフェース。
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CurrentUserFinder middleware.CurrentUserFinder
	RateLimiter       *middleware.RateLimiter

	// 表示
	Renderer *view.Renderer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// レシピ
	RecipeService RecipeServiceInterface

	// ソーシャル（保存・評価・プロフィール）
	SocialService SocialServiceInterface
	UserFinder    UserFinder

	// 監視
	Metrics           MetricsRecorder
	MetricsMiddleware func(next http.Handler) http.Handler
	MetricsHandler    http.Handler
	HealthChecker     Pinger // nilの場合は常にOKを返す
}

// NewRouter は全ページのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Logging →（認証ページのみ）Session → RateLimit(General)
//
// ログイン・サインアップはセッション不要でIP単位のレート制限のみを適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Renderer))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.MetricsMiddleware != nil {
		r.Use(deps.MetricsMiddleware)
	}
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Renderer, deps.Metrics)
	recipeHandler := NewRecipeHandler(deps.RecipeService, deps.Renderer, deps.Metrics)
	socialHandler := NewSocialHandler(deps.SocialService, deps.UserFinder, recipeHandler, deps.Renderer, deps.Metrics)

	// --- 認証不要のルート ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.LoginMiddleware())

		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/signup", authHandler.SignupForm)
		r.Post("/signup", authHandler.Signup)
	})

	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.CurrentUserFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/logout", authHandler.Logout)

		// レシピ閲覧
		r.Get("/", recipeHandler.Home)
		r.Get("/menu", recipeHandler.Menu)
		r.Get("/recipe/{id}", recipeHandler.View)

		// レシピ作成（2形式）
		r.Get("/create-recipe", recipeHandler.CreateForm)
		r.Post("/create-recipe", recipeHandler.Create)
		r.Get("/add", recipeHandler.AddForm)
		r.Post("/add", recipeHandler.Add)

		// レシピ編集・削除（所有者のみ）
		r.Get("/edit/{id}", recipeHandler.EditForm)
		r.Post("/edit/{id}", recipeHandler.Edit)
		r.Get("/delete/{id}", recipeHandler.DeleteConfirm)
		r.Post("/delete/{id}", recipeHandler.Delete)

		// 検索
		r.Get("/search", recipeHandler.SearchForm)
		r.Post("/search", recipeHandler.Search)

		// 保存・評価
		r.Post("/save/{id}", socialHandler.Save)
		r.Post("/unsave/{id}", socialHandler.Unsave)
		r.Post("/rate/{id}", socialHandler.Rate)

		// プロフィール
		r.Get("/profile", socialHandler.Profile)
		r.Get("/profile/{userID}", socialHandler.ProfileByID)
	})

	return r
}

// newHealthHandler はヘルスチェックハンドラーを返す。
// pingerが設定されていれば疎通確認し、失敗時は503を返す。
func newHealthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
