package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// MongoRecipeRepo はMongoDBのrecipesコレクションを使用したレシピリポジトリ。
type MongoRecipeRepo struct {
	coll *mongo.Collection
}

// NewMongoRecipeRepo はMongoRecipeRepoを生成する。
func NewMongoRecipeRepo(db *mongo.Database) *MongoRecipeRepo {
	return &MongoRecipeRepo{coll: db.Collection("recipes")}
}

// ListAll は全レシピを返す。ソート指定なしのため実質的に挿入順となる。
func (r *MongoRecipeRepo) ListAll(ctx context.Context) ([]model.Recipe, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []model.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *MongoRecipeRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe by ID: %w", err)
	}
	return recipe, nil
}

// FindByIDs は指定ID群のレシピを元のID順で返す。存在しないIDは黙って読み飛ばす。
func (r *MongoRecipeRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	found := []model.Recipe{}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	// $inは順序を保証しないため、呼び出し側のID順に並べ直す
	byID := make(map[primitive.ObjectID]model.Recipe, len(found))
	for _, recipe := range found {
		byID[recipe.ID] = recipe
	}
	recipes := make([]model.Recipe, 0, len(found))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

// ListByAuthor は指定ユーザーが作成したレシピを返す。
func (r *MongoRecipeRepo) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]model.Recipe, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"author_id": authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes by author: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []model.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}

// Create はレシピを作成し、採番されたIDをrecipe.IDに書き戻す。
func (r *MongoRecipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, recipe); err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// Update はレシピの編集可能フィールドを全上書きする。
// ratingsとavg_ratingは対象外（UpdateRatingsで更新する）。
func (r *MongoRecipeRepo) Update(ctx context.Context, recipe *model.Recipe) error {
	set := bson.M{
		"name":         recipe.Name,
		"description":  recipe.Description,
		"ingredients":  recipe.Ingredients,
		"instructions": recipe.Instructions,
	}
	update := bson.M{"$set": set}
	if recipe.PrepTime != nil {
		set["prep_time"] = *recipe.PrepTime
	} else {
		update["$unset"] = bson.M{"prep_time": ""}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": recipe.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("recipe not found: %s", recipe.ID.Hex())
	}
	return nil
}

// UpdateRatings は評価マップと平均評価をまとめて上書きする。
// 単一ドキュメントの$setのためドキュメント単位ではアトミックだが、
// 読み出しから書き込みまでは非トランザクション（同時評価は後勝ち）。
func (r *MongoRecipeRepo) UpdateRatings(ctx context.Context, id primitive.ObjectID, ratings map[string]int, avgRating float64) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"ratings":    ratings,
			"avg_rating": avgRating,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update ratings: %w", err)
	}
	return nil
}

// Delete は指定IDのレシピを物理削除する。
func (r *MongoRecipeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// compile-time interface check
var _ RecipeRepository = (*MongoRecipeRepo)(nil)
