package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session はログインセッションを表す。
// IDは暗号的に安全な乱数から生成した64桁hex文字列で、
// HTTP Only Cookieに保存される。
type Session struct {
	ID        string             `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}
