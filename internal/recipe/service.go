// Package recipe はレシピのCRUDと検索のドメインロジックを提供する。
package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/repository"
)

// Input はレシピ作成・編集フォームの解析済み入力を表す。
// IngredientsとInstructionsはハンドラー側でフォームごとの区切り規則
// （カンマまたは改行）に従って分割済みであること。
type Input struct {
	Name         string
	Description  string
	Ingredients  []string
	Instructions []string
	PrepTime     *int
}

// Service はレシピ管理のサービス層。
type Service struct {
	recipeRepo repository.RecipeRepository
}

// NewService はServiceを生成する。
func NewService(recipeRepo repository.RecipeRepository) *Service {
	return &Service{recipeRepo: recipeRepo}
}

// List は全レシピを挿入順で返す。
func (s *Service) List(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("レシピ一覧の取得に失敗しました: %w", err)
	}
	return recipes, nil
}

// Get は指定IDのレシピを返す。存在しない場合はRecipeNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("レシピの取得に失敗しました: %w", err)
	}
	if recipe == nil {
		return nil, model.NewRecipeNotFoundError()
	}
	return recipe, nil
}

// Create は新規レシピを作成する。
// 名前が空の場合は何も作成せずnilを返す（エラーにしない）。
// 元実装が空名の投稿を黙って捨てる挙動をそのまま保持している。
func (s *Service) Create(ctx context.Context, input Input, authorID primitive.ObjectID) (*model.Recipe, error) {
	if input.Name == "" {
		return nil, nil
	}

	recipe := &model.Recipe{
		Name:         input.Name,
		Description:  input.Description,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		PrepTime:     input.PrepTime,
		AuthorID:     authorID,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("レシピの作成に失敗しました: %w", err)
	}

	slog.Info("recipe created",
		slog.String("recipe_id", recipe.ID.Hex()),
		slog.String("author_id", authorID.Hex()),
	)
	return recipe, nil
}

// Update は既存レシピを全上書きで更新する。
// 所有者以外による更新はForbiddenErrorを返し、状態を変更しない。
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, input Input, requesterID primitive.ObjectID) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != requesterID {
		return model.NewForbiddenError()
	}

	recipe.Name = input.Name
	recipe.Description = input.Description
	recipe.Ingredients = input.Ingredients
	recipe.Instructions = input.Instructions
	recipe.PrepTime = input.PrepTime

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return fmt.Errorf("レシピの更新に失敗しました: %w", err)
	}

	slog.Info("recipe updated", slog.String("recipe_id", id.Hex()))
	return nil
}

// Delete は指定IDのレシピを物理削除する。
// 所有者以外による削除はForbiddenErrorを返し、状態を変更しない。
func (s *Service) Delete(ctx context.Context, id, requesterID primitive.ObjectID) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != requesterID {
		return model.NewForbiddenError()
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("レシピの削除に失敗しました: %w", err)
	}

	slog.Info("recipe deleted", slog.String("recipe_id", id.Hex()))
	return nil
}

// Search はレシピを検索する。
// query: 名前の部分一致（大文字小文字無視）。
// include: カンマ区切りterm。全termについて部分一致する材料が1つ以上必要。
// exclude: カンマ区切りterm。いずれかの材料がいずれかのtermを含めば除外。
// 該当なしの場合は空スライスを返す。
func (s *Service) Search(ctx context.Context, query, include, exclude string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("レシピ一覧の取得に失敗しました: %w", err)
	}

	return Filter(recipes,
		NameContains(query),
		IncludesAll(SplitTerms(include)),
		ExcludesAll(SplitTerms(exclude)),
	), nil
}
