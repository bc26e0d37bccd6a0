package recipe

import (
	"strings"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// 検索は合成可能な述語パイプラインとしてインプロセスで評価する。
// 名前一致 → 含有材料（全term必須）→ 除外材料（いずれか含めば除外）の順に適用する。

// Predicate はレシピ1件に対する検索条件を表す。
type Predicate func(*model.Recipe) bool

// NameContains は名前の大文字小文字を無視した部分一致述語を返す。
// queryが空の場合は常に真。
func NameContains(query string) Predicate {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(r *model.Recipe) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(r.Name), q)
	}
}

// IncludesAll は全termについて、いずれかの材料が部分一致することを要求する述語を返す。
// term間はAND、1つのtermに対する材料間はOR。termsが空の場合は常に真。
func IncludesAll(terms []string) Predicate {
	return func(r *model.Recipe) bool {
		for _, term := range terms {
			if !anyIngredientContains(r.Ingredients, term) {
				return false
			}
		}
		return true
	}
}

// ExcludesAll はいずれかの材料がいずれかのtermに部分一致するレシピを落とす述語を返す。
// termsが空の場合は常に真。
func ExcludesAll(terms []string) Predicate {
	return func(r *model.Recipe) bool {
		for _, term := range terms {
			if anyIngredientContains(r.Ingredients, term) {
				return false
			}
		}
		return true
	}
}

// anyIngredientContains はいずれかの材料文字列がtermを部分一致で含むかを返す。
// termは小文字化済みであること。
func anyIngredientContains(ingredients []string, term string) bool {
	for _, ing := range ingredients {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}

// SplitTerms はカンマ区切りの検索termを小文字化・トリムして返す。空要素は捨てる。
func SplitTerms(raw string) []string {
	terms := []string{}
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(strings.ToLower(t)); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

// Filter は全述語を満たすレシピのみを返す。該当なしの場合は空スライス。
func Filter(recipes []model.Recipe, preds ...Predicate) []model.Recipe {
	matched := []model.Recipe{}
	for i := range recipes {
		ok := true
		for _, pred := range preds {
			if !pred(&recipes[i]) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, recipes[i])
		}
	}
	return matched
}
