// Package social はブックマークと評価のドメインロジックを提供する。
package social

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/repository"
)

// 評価値の許容範囲。元実装は範囲を検証していなかったが、
// リポジトリ境界での検証方針に従いここで1〜5に制限する。
const (
	MinRating = 1
	MaxRating = 5
)

// Service はブックマークと評価のサービス層。
type Service struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, recipeRepo repository.RecipeRepository) *Service {
	return &Service{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

// Save はレシピをユーザーのブックマーク集合に追加する。冪等。
// 対象レシピが存在しない場合はRecipeNotFoundErrorを返す。
func (s *Service) Save(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	if err := s.ensureRecipeExists(ctx, recipeID); err != nil {
		return err
	}
	if err := s.userRepo.AddSavedRecipe(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("ブックマークの追加に失敗しました: %w", err)
	}
	return nil
}

// Unsave はレシピをユーザーのブックマーク集合から除去する。冪等。
func (s *Service) Unsave(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	if err := s.userRepo.RemoveSavedRecipe(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("ブックマークの除去に失敗しました: %w", err)
	}
	return nil
}

// SavedRecipes はユーザーのブックマーク集合をレシピ本体に解決して返す。
// 削除済みレシピのIDは黙って読み飛ばす。
func (s *Service) SavedRecipes(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	recipes, err := s.recipeRepo.FindByIDs(ctx, user.SavedRecipes)
	if err != nil {
		return nil, fmt.Errorf("ブックマークの解決に失敗しました: %w", err)
	}
	return recipes, nil
}

// AuthoredBy は指定ユーザーが作成したレシピを返す。
func (s *Service) AuthoredBy(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("作成レシピ一覧の取得に失敗しました: %w", err)
	}
	return recipes, nil
}

// Rate は指定レシピへのユーザーの評価を登録する。
// 同一ユーザーの再評価は前の値を置き換え（1ユーザー1評価）、
// 平均評価を同期的に再計算して保存する。
//
// 評価マップの読み出しから書き込みまではトランザクションではない。
// 同一レシピへの同時評価はマップ全体の後勝ちになり得る（許容済みの整合性ギャップ）。
func (s *Service) Rate(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error {
	if rating < MinRating || rating > MaxRating {
		return model.NewInvalidRatingError()
	}

	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}
	if recipe == nil {
		return model.NewRecipeNotFoundError()
	}

	recipe.SetRating(userID.Hex(), rating)

	if err := s.recipeRepo.UpdateRatings(ctx, recipeID, recipe.Ratings, recipe.AvgRating); err != nil {
		return fmt.Errorf("評価の保存に失敗しました: %w", err)
	}

	slog.Info("recipe rated",
		slog.String("recipe_id", recipeID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.Int("rating", rating),
	)
	return nil
}

// ensureRecipeExists は対象レシピの存在を確認する。
func (s *Service) ensureRecipeExists(ctx context.Context, recipeID primitive.ObjectID) error {
	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}
	if recipe == nil {
		return model.NewRecipeNotFoundError()
	}
	return nil
}
