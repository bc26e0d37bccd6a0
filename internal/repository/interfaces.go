// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
	Create(ctx context.Context, user *model.User) error

	// AddSavedRecipe はブックマーク集合にレシピIDを追加する（$addToSet相当、冪等）。
	AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error

	// RemoveSavedRecipe はブックマーク集合からレシピIDを除去する（$pull相当、冪等）。
	RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// RecipeRepository はレシピデータの永続化インターフェース。
type RecipeRepository interface {
	// ListAll は全レシピを挿入順で返す。
	ListAll(ctx context.Context) ([]model.Recipe, error)

	// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error)

	// FindByIDs は指定ID群のレシピを返す。存在しないIDは黙って読み飛ばす。
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error)

	// ListByAuthor は指定ユーザーが作成したレシピを挿入順で返す。
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]model.Recipe, error)

	// Create はレシピを作成し、採番されたIDをrecipe.IDに書き戻す。
	Create(ctx context.Context, recipe *model.Recipe) error

	// Update はレシピの編集可能フィールド（name/description/prep_time/
	// ingredients/instructions）を全上書きする（$set相当）。
	Update(ctx context.Context, recipe *model.Recipe) error

	// UpdateRatings は評価マップと平均評価をまとめて上書きする（$set相当）。
	// ドキュメント単位でのみアトミック。同一レシピへの同時評価は後勝ちになる。
	UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings map[string]int, avgRating float64) error

	// Delete は指定IDのレシピを物理削除する。
	Delete(ctx context.Context, id primitive.ObjectID) error
}
