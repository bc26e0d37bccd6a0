package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// このファイルのインメモリ実装はデモモード用のフォールバックストア。
// MongoDBなしで起動した場合に使用され、元実装のmongomockフォールバックに相当する。
// 全実装は挿入順を保持し、Mongo実装と同じnil-for-not-foundセマンティクスに従う。

// MemoryUserRepo はインメモリのユーザーリポジトリ。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users []*model.User
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.SavedRecipes == nil {
		user.SavedRecipes = []primitive.ObjectID{}
	}
	r.users = append(r.users, copyUser(user))
	return nil
}

// AddSavedRecipe はブックマーク集合にレシピIDを追加する（冪等）。
func (r *MemoryUserRepo) AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != userID {
			continue
		}
		if !u.HasSaved(recipeID) {
			u.SavedRecipes = append(u.SavedRecipes, recipeID)
		}
		return nil
	}
	return nil
}

// RemoveSavedRecipe はブックマーク集合からレシピIDを除去する（冪等）。
func (r *MemoryUserRepo) RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != userID {
			continue
		}
		kept := u.SavedRecipes[:0]
		for _, id := range u.SavedRecipes {
			if id != recipeID {
				kept = append(kept, id)
			}
		}
		u.SavedRecipes = kept
		return nil
	}
	return nil
}

// MemorySessionRepo はインメモリのセッションリポジトリ。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]*model.Session)}
}

// Create はセッションを作成する。
func (r *MemorySessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *session
	r.sessions[session.ID] = &s
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れまたは未検出の場合はnilを返す。
func (r *MemorySessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	found := *s
	return &found, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *MemorySessionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// MemoryRecipeRepo はインメモリのレシピリポジトリ。
type MemoryRecipeRepo struct {
	mu      sync.RWMutex
	recipes []*model.Recipe
}

// NewMemoryRecipeRepo はMemoryRecipeRepoを生成する。
func NewMemoryRecipeRepo() *MemoryRecipeRepo {
	return &MemoryRecipeRepo{}
}

// ListAll は全レシピを挿入順で返す。
func (r *MemoryRecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipes := make([]model.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		recipes = append(recipes, *copyRecipe(recipe))
	}
	return recipes, nil
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *MemoryRecipeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, recipe := range r.recipes {
		if recipe.ID == id {
			return copyRecipe(recipe), nil
		}
	}
	return nil, nil
}

// FindByIDs は指定ID群のレシピを元のID順で返す。存在しないIDは黙って読み飛ばす。
func (r *MemoryRecipeRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID := make(map[primitive.ObjectID]*model.Recipe, len(r.recipes))
	for _, recipe := range r.recipes {
		byID[recipe.ID] = recipe
	}
	recipes := []model.Recipe{}
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, *copyRecipe(recipe))
		}
	}
	return recipes, nil
}

// ListByAuthor は指定ユーザーが作成したレシピを挿入順で返す。
func (r *MemoryRecipeRepo) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]model.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipes := []model.Recipe{}
	for _, recipe := range r.recipes {
		if recipe.AuthorID == authorID {
			recipes = append(recipes, *copyRecipe(recipe))
		}
	}
	return recipes, nil
}

// Create はレシピを作成し、採番されたIDをrecipe.IDに書き戻す。
func (r *MemoryRecipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	r.recipes = append(r.recipes, copyRecipe(recipe))
	return nil
}

// Update はレシピの編集可能フィールドを全上書きする。
func (r *MemoryRecipeRepo) Update(ctx context.Context, recipe *model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.recipes {
		if stored.ID != recipe.ID {
			continue
		}
		stored.Name = recipe.Name
		stored.Description = recipe.Description
		stored.Ingredients = append([]string(nil), recipe.Ingredients...)
		stored.Instructions = append([]string(nil), recipe.Instructions...)
		if recipe.PrepTime != nil {
			prep := *recipe.PrepTime
			stored.PrepTime = &prep
		} else {
			stored.PrepTime = nil
		}
		return nil
	}
	return nil
}

// UpdateRatings は評価マップと平均評価をまとめて上書きする（後勝ち）。
func (r *MemoryRecipeRepo) UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings map[string]int, avgRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.recipes {
		if stored.ID != id {
			continue
		}
		stored.Ratings = copyRatings(ratings)
		stored.AvgRating = avgRating
		return nil
	}
	return nil
}

// Delete は指定IDのレシピを削除する。
func (r *MemoryRecipeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.recipes[:0]
	for _, recipe := range r.recipes {
		if recipe.ID != id {
			kept = append(kept, recipe)
		}
	}
	r.recipes = kept
	return nil
}

// copyUser は呼び出し側との共有を避けるためユーザーを複製する。
func copyUser(u *model.User) *model.User {
	c := *u
	c.SavedRecipes = append([]primitive.ObjectID(nil), u.SavedRecipes...)
	return &c
}

// copyRecipe は呼び出し側との共有を避けるためレシピを複製する。
func copyRecipe(recipe *model.Recipe) *model.Recipe {
	c := *recipe
	c.Ingredients = append([]string(nil), recipe.Ingredients...)
	c.Instructions = append([]string(nil), recipe.Instructions...)
	if recipe.PrepTime != nil {
		prep := *recipe.PrepTime
		c.PrepTime = &prep
	}
	c.Ratings = copyRatings(recipe.Ratings)
	return &c
}

func copyRatings(ratings map[string]int) map[string]int {
	if ratings == nil {
		return nil
	}
	c := make(map[string]int, len(ratings))
	for k, v := range ratings {
		c[k] = v
	}
	return c
}

// compile-time interface checks
var (
	_ UserRepository    = (*MemoryUserRepo)(nil)
	_ SessionRepository = (*MemorySessionRepo)(nil)
	_ RecipeRepository  = (*MemoryRecipeRepo)(nil)
)
