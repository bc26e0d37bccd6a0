// Package seed はJSONフィクスチャからデータストアへの初期データ投入を提供する。
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/repository"
)

// フィクスチャのファイル名。ディレクトリ内のこの2ファイルを読み込む。
const (
	usersFile   = "users.json"
	recipesFile = "sample_recipes.json"
)

// userFixture はusers.jsonの1エントリ。IDは24桁hex文字列で記述する。
type userFixture struct {
	ID           string   `json:"_id"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	SavedRecipes []string `json:"saved_recipes"`
}

// recipeFixture はsample_recipes.jsonの1エントリ。
type recipeFixture struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Ingredients  []string       `json:"ingredients"`
	Instructions []string       `json:"instructions"`
	PrepTime     *int           `json:"prep_time"`
	AuthorID     string         `json:"author_id"`
	Ratings      map[string]int `json:"ratings"`
}

// Result は投入件数の集計。
type Result struct {
	Users   int
	Recipes int
}

// Importer はフィクスチャをリポジトリ経由で投入する。
type Importer struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

// NewImporter はImporterを生成する。
func NewImporter(userRepo repository.UserRepository, recipeRepo repository.RecipeRepository) *Importer {
	return &Importer{userRepo: userRepo, recipeRepo: recipeRepo}
}

// ImportDir はdir直下のusers.jsonとsample_recipes.jsonを読み込み、
// ユーザー、レシピの順に投入する（レシピのauthor_idが先に存在するように）。
func (i *Importer) ImportDir(ctx context.Context, dir string) (*Result, error) {
	var users []userFixture
	if err := loadJSON(filepath.Join(dir, usersFile), &users); err != nil {
		return nil, err
	}
	var recipes []recipeFixture
	if err := loadJSON(filepath.Join(dir, recipesFile), &recipes); err != nil {
		return nil, err
	}

	result := &Result{}

	for _, f := range users {
		user, err := f.toModel()
		if err != nil {
			return nil, fmt.Errorf("invalid user fixture %q: %w", f.Email, err)
		}
		if err := i.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to import user %q: %w", f.Email, err)
		}
		result.Users++
	}

	for _, f := range recipes {
		recipe, err := f.toModel()
		if err != nil {
			return nil, fmt.Errorf("invalid recipe fixture %q: %w", f.Name, err)
		}
		if err := i.recipeRepo.Create(ctx, recipe); err != nil {
			return nil, fmt.Errorf("failed to import recipe %q: %w", f.Name, err)
		}
		result.Recipes++
	}

	return result, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (f userFixture) toModel() (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(f.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid _id: %w", err)
	}

	saved := make([]primitive.ObjectID, 0, len(f.SavedRecipes))
	for _, raw := range f.SavedRecipes {
		rid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid saved recipe id %q: %w", raw, err)
		}
		saved = append(saved, rid)
	}

	return &model.User{
		ID:           id,
		Email:        f.Email,
		Username:     f.Username,
		Password:     f.Password,
		SavedRecipes: saved,
	}, nil
}

func (f recipeFixture) toModel() (*model.Recipe, error) {
	recipe := &model.Recipe{
		Name:         f.Name,
		Description:  f.Description,
		Ingredients:  f.Ingredients,
		Instructions: f.Instructions,
		PrepTime:     f.PrepTime,
	}

	// _idとauthor_idは省略可（省略時はリポジトリが新規IDを採番する）
	if f.ID != "" {
		id, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid _id: %w", err)
		}
		recipe.ID = id
	}
	if f.AuthorID != "" {
		authorID, err := primitive.ObjectIDFromHex(f.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author_id: %w", err)
		}
		recipe.AuthorID = authorID
	}

	for userID, rating := range f.Ratings {
		recipe.SetRating(userID, rating)
	}

	return recipe, nil
}
