// Package model はドメインモデルを定義する。
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User はサービス利用ユーザーを表す。
// SavedRecipesはブックマークしたレシピIDの集合（重複なし）。
// Passwordは平文で保存される。既知の脆弱性として元実装の挙動を保持している。
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Email        string               `bson:"email"`
	Username     string               `bson:"username"`
	Password     string               `bson:"password"`
	SavedRecipes []primitive.ObjectID `bson:"saved_recipes"`
}

// HasSaved は指定レシピがブックマーク済みかどうかを返す。
func (u *User) HasSaved(recipeID primitive.ObjectID) bool {
	for _, id := range u.SavedRecipes {
		if id == recipeID {
			return true
		}
	}
	return false
}
