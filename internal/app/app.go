// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/citrus-cyclones/letthemcook/internal/auth"
	"github.com/citrus-cyclones/letthemcook/internal/config"
	"github.com/citrus-cyclones/letthemcook/internal/database"
	"github.com/citrus-cyclones/letthemcook/internal/handler"
	"github.com/citrus-cyclones/letthemcook/internal/logger"
	"github.com/citrus-cyclones/letthemcook/internal/metrics"
	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/recipe"
	"github.com/citrus-cyclones/letthemcook/internal/repository"
	"github.com/citrus-cyclones/letthemcook/internal/seed"
	"github.com/citrus-cyclones/letthemcook/internal/social"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Bool("demo_mode", cfg.DemoMode),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// repos はサーバーが必要とする全リポジトリの束。
type repos struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	recipes  repository.RecipeRepository
}

// mongoPinger はmongo.Clientをヘルスチェック用のPingerに適合させる。
type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// newDemoRepos はサンプルレシピ入りのインメモリリポジトリを組み立てる。
func newDemoRepos() (repos, error) {
	r := repos{
		users:    repository.NewMemoryUserRepo(),
		sessions: repository.NewMemorySessionRepo(),
		recipes:  repository.NewMemoryRecipeRepo(),
	}

	seeded, err := repository.SeedSampleRecipes(context.Background(), r.recipes)
	if err != nil {
		return repos{}, fmt.Errorf("failed to seed sample recipes: %w", err)
	}
	slog.Info("in-memory store ready", slog.Int("sample_recipes", seeded))
	return r, nil
}

// runServe はWebサーバーモードで起動する。
// デモモードではMongoDBに接続せず、サンプルレシピ入りのインメモリストアを使う。
// MongoDBに到達できない場合もインメモリストアにフォールバックする。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	var (
		r      repos
		pinger handler.Pinger
		err    error
	)

	if cfg.DemoMode {
		slog.Info("demo mode enabled")
		r, err = newDemoRepos()
		if err != nil {
			return err
		}
	} else {
		// 1. DB接続
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, openErr := database.Open(ctx, cfg.MongoURI)
		cancel()
		if openErr != nil {
			slog.Warn("database unreachable, falling back to in-memory store",
				slog.String("error", openErr.Error()),
			)
			r, err = newDemoRepos()
			if err != nil {
				return err
			}
		} else {
			defer func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					slog.Error("failed to disconnect from database", slog.String("error", err.Error()))
				}
			}()

			slog.Info("database connection established")

			db := client.Database(cfg.MongoDBName)
			r = repos{
				users:    repository.NewMongoUserRepo(db),
				sessions: repository.NewMongoSessionRepo(db),
				recipes:  repository.NewMongoRecipeRepo(db),
			}
			pinger = mongoPinger{client: client}
		}
	}

	// 2. ドメインサービスの初期化
	authService := auth.NewService(r.users, r.sessions, auth.ServiceConfig{
		SessionMaxAge: cfg.SessionMaxAge,
	})
	recipeService := recipe.NewService(r.recipes)
	socialService := social.NewService(r.users, r.recipes)

	// 3. テンプレートの読み込み
	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitLogin),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		CurrentUserFinder: authService,
		RateLimiter:       rateLimiter,

		Renderer: renderer,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		RecipeService: recipeService,
		SocialService: socialService,
		UserFinder:    r.users,

		Metrics:           collector,
		MetricsMiddleware: collector.HTTPMiddleware(),
		MetricsHandler:    metrics.Handler(registry),
		HealthChecker:     pinger,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("web server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.MongoURI == "" {
		return fmt.Errorf("MONGO_URI must be set to run migrations")
	}

	// mongodbドライバーはURIパスのデータベース名を必要とする
	uri, err := database.MigrationURI(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return fmt.Errorf("invalid MONGO_URI: %w", err)
	}

	slog.Info("running database migrations",
		slog.String("mongo_uri", maskMongoURI(cfg.MongoURI)),
	)

	if err := database.RunMigrations(uri); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runSeed はJSONフィクスチャからMongoDBへ初期データを投入する。
// ユーザー、レシピの順に投入する。
func runSeed(cfg *config.Config) error {
	if cfg.MongoURI == "" {
		return fmt.Errorf("MONGO_URI must be set to run seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Open(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("failed to disconnect from database", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.MongoDBName)
	importer := seed.NewImporter(
		repository.NewMongoUserRepo(db),
		repository.NewMongoRecipeRepo(db),
	)

	result, err := importer.ImportDir(ctx, cfg.SeedDir)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	slog.Info("seed completed",
		slog.Int("users", result.Users),
		slog.Int("recipes", result.Recipes),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskMongoURI は接続URIの認証情報をマスクする。
func maskMongoURI(uri string) string {
	if len(uri) > 20 {
		return uri[:10] + "***@..."
	}
	return "***"
}
