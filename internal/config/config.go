package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	MongoURI    string
	MongoDBName string

	// Demo
	// trueの場合はMongoDBに接続せず、サンプルレシピ入りのインメモリストアで起動する。
	DemoMode bool

	// Session
	SessionMaxAge int // セッション有効期間（秒）

	// Rate Limit
	RateLimitGeneral int // 認証済みAPI全般（req/min/user）
	RateLimitLogin   int // ログイン・サインアップ（req/min/IP）

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// Seed
	SeedDir string // seedサブコマンドが読むJSONフィクスチャのディレクトリ
}

// Load は環境変数からConfigを読み込む。
// デモモードでない場合、MONGO_URIが未設定ならエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DemoMode = isTruthy(getEnvString("DEMO_MODE", "true"))

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" && !cfg.DemoMode {
		return nil, fmt.Errorf("required environment variable is not set: MONGO_URI")
	}

	cfg.MongoDBName = getEnvString("MONGO_DBNAME", "let_them_cook")
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.SeedDir = getEnvString("SEED_DIR", "data")

	return cfg, nil
}

// isTruthy は"1"、"true"、"yes"、"on"（大文字小文字無視）を真と判定する。
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
