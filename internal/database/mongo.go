// Package database はMongoDB接続とマイグレーション管理を提供する。
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// 元実装のpymongo設定に合わせた接続タイムアウト。
const (
	connectTimeout         = 3 * time.Second
	serverSelectionTimeout = 3 * time.Second
	socketTimeout          = 5 * time.Second
)

// Open はMongoDBに接続し、Pingで到達性を確認してからクライアントを返す。
func Open(ctx context.Context, mongoURI string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}
