// Package database はMongoDB接続とマイグレーション管理を提供する。
package database

import (
	"embed"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.json
var migrationsFS embed.FS

// MigrationURI はマイグレーション用の接続URIを組み立てる。
// golang-migrateのmongodbドライバーはURIのパスにデータベース名を要求するため、
// パスが空の接続URL（例: "mongodb://db:27017"）にはdbNameを補う。
// すでにデータベース名を含むURIはそのまま返す。
func MigrationURI(mongoURI, dbName string) (string, error) {
	u, err := url.Parse(mongoURI)
	if err != nil {
		return "", fmt.Errorf("failed to parse mongo URI: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + dbName
	}
	return u.String(), nil
}

// NewMigrator はマイグレーション実行用のmigrateインスタンスを生成する。
// mongoURIにはデータベース名を含むMongoDB接続URLを指定する
// （例: "mongodb://localhost:27017/let_them_cook"）。
func NewMigrator(mongoURI string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}

// RunMigrations はすべてのマイグレーションを適用する。
// usersコレクションのemailユニークインデックスなど、検索・一意性制約のための
// インデックスをここで作成する。すでに最新の場合はエラーなしで返る。
func RunMigrations(mongoURI string) error {
	m, err := NewMigrator(mongoURI)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
