package recipe

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// SplitCommaList はカンマ区切りの入力を分割し、前後空白を除去して空要素を捨てる。
// /create-recipe フォームの材料欄に使用する。
func SplitCommaList(raw string) []string {
	return splitAndTrim(raw, ",")
}

// SplitLines は改行区切りの入力を分割し、前後空白を除去して空要素を捨てる。
// 手順欄、および /add フォームの材料欄に使用する。
func SplitLines(raw string) []string {
	return splitAndTrim(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

func splitAndTrim(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	out := []string{}
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParsePrepTime は調理時間欄を整数として解釈する。
// 空欄はnil（未設定）、数値でない入力もnilとして扱う。
func ParsePrepTime(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// ParseID はURL上のレシピIDを解釈する。
// 不正な16進文字列はRecipeNotFoundErrorとして扱い、プロセスを落とさない。
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, model.NewRecipeNotFoundError()
	}
	return id, nil
}
