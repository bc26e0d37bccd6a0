package model

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe は投稿されたレシピを表す。
//
// Ratingsは評価者のユーザーID（hex文字列）から1〜5の評価値へのマップ。
// AvgRatingはRatingsから導出される平均値（小数第1位で四捨五入）で、
// 評価の更新時に必ず再計算して保存する。
type Recipe struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	Ingredients  []string           `bson:"ingredients"`
	Instructions []string           `bson:"instructions"`
	PrepTime     *int               `bson:"prep_time,omitempty"`
	AuthorID     primitive.ObjectID `bson:"author_id,omitempty"`
	Ratings      map[string]int     `bson:"ratings,omitempty"`
	AvgRating    float64            `bson:"avg_rating,omitempty"`
}

// SetRating は指定ユーザーの評価を追加または上書きし、平均評価を再計算する。
// userIDは評価者のObjectIDのhex表現。
func (r *Recipe) SetRating(userID string, rating int) {
	if r.Ratings == nil {
		r.Ratings = make(map[string]int)
	}
	r.Ratings[userID] = rating
	r.AvgRating = averageRating(r.Ratings)
}

// RatingCount は評価件数を返す。
func (r *Recipe) RatingCount() int {
	return len(r.Ratings)
}

// RatingBy は指定ユーザーの評価値を返す。未評価の場合は2番目の戻り値がfalse。
func (r *Recipe) RatingBy(userID string) (int, bool) {
	rating, ok := r.Ratings[userID]
	return rating, ok
}

// averageRating は評価マップの平均を小数第1位で四捨五入して返す。
// 評価が空の場合は0を返す。
func averageRating(ratings map[string]int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, v := range ratings {
		sum += v
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}
