// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// AppError は統一エラーフォーマットを表す。
// UIに表示するメッセージと原因カテゴリを含む。
type AppError struct {
	Code     string // エラーコード
	Message  string // ユーザー向けメッセージ（テンプレートにそのまま表示する）
	Category string // カテゴリ: validation, conflict, auth, forbidden, not_found, system
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeRecipeNotFound     = "RECIPE_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidRating      = "INVALID_RATING"
)

// NewValidationError は必須フィールド欠落エラーを生成する。
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *AppError {
	return &AppError{
		Code:     ErrCodeEmailTaken,
		Message:  "Email already taken.",
		Category: "conflict",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// 未登録メールとパスワード不一致を区別しない（列挙攻撃対策というより元実装の挙動）。
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password.",
		Category: "auth",
	}
}

// NewUnauthenticatedError は未認証エラーを生成する。
func NewUnauthenticatedError() *AppError {
	return &AppError{
		Code:     ErrCodeUnauthenticated,
		Message:  "Please log in to continue.",
		Category: "auth",
	}
}

// NewForbiddenError は所有者以外による変更操作のエラーを生成する。
func NewForbiddenError() *AppError {
	return &AppError{
		Code:     ErrCodeForbidden,
		Message:  "Only the author can modify this recipe.",
		Category: "forbidden",
	}
}

// NewRecipeNotFoundError はレシピ未検出エラーを生成する。
func NewRecipeNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeRecipeNotFound,
		Message:  "Recipe not found.",
		Category: "not_found",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found.",
		Category: "not_found",
	}
}

// NewInvalidRatingError は評価値の検証エラーを生成する。
func NewInvalidRatingError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidRating,
		Message:  "Rating must be a whole number between 1 and 5.",
		Category: "validation",
	}
}

// CategoryOf はエラーのカテゴリを返す。AppErrorでない場合は"system"を返す。
func CategoryOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return "system"
}

// IsNotFound はエラーがnot_foundカテゴリかどうかを返す。
func IsNotFound(err error) bool {
	return CategoryOf(err) == "not_found"
}

// IsForbidden はエラーがforbiddenカテゴリかどうかを返す。
func IsForbidden(err error) bool {
	return CategoryOf(err) == "forbidden"
}
