package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/recipe"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// SocialServiceInterface はソーシャルハンドラーが必要とするサービスインターフェース。
type SocialServiceInterface interface {
	Save(ctx context.Context, userID, recipeID primitive.ObjectID) error
	Unsave(ctx context.Context, userID, recipeID primitive.ObjectID) error
	SavedRecipes(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error)
	AuthoredBy(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error)
	Rate(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error
}

// UserFinder はプロフィール表示のためのユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// SocialHandler は保存・評価・プロフィールのHTTPハンドラー。
type SocialHandler struct {
	service    SocialServiceInterface
	userFinder UserFinder
	recipePage *RecipeHandler
	renderer   *view.Renderer
	metrics    MetricsRecorder
}

// NewSocialHandler はSocialHandlerを生成する。
// recipePageは評価の検証エラー時にレシピ詳細ページを再描画するために使う。
func NewSocialHandler(service SocialServiceInterface, userFinder UserFinder, recipePage *RecipeHandler, renderer *view.Renderer, metrics MetricsRecorder) *SocialHandler {
	return &SocialHandler{
		service:    service,
		userFinder: userFinder,
		recipePage: recipePage,
		renderer:   renderer,
		metrics:    orNoopMetrics(metrics),
	}
}

// profilePageData はプロフィールページのテンプレートデータ。
type profilePageData struct {
	ProfileUser *model.User
	Authored    []model.Recipe
	Saved       []model.Recipe
	IsSelf      bool
}

// Save はレシピを保存済みリストに追加する。既に保存済みなら何もしない。
// POST /save/{id}
func (h *SocialHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.toggleSaved(w, r, h.service.Save, "failed to save recipe")
}

// Unsave はレシピを保存済みリストから外す。保存していなければ何もしない。
// POST /unsave/{id}
func (h *SocialHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	h.toggleSaved(w, r, h.service.Unsave, "failed to unsave recipe")
}

func (h *SocialHandler) toggleSaved(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, primitive.ObjectID) error, logMsg string) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := recipe.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.RenderNotFound(w, "Recipe not found.")
		return
	}

	if err := op(r.Context(), user.ID, id); err != nil {
		if model.IsNotFound(err) {
			h.renderer.RenderNotFound(w, "Recipe not found.")
			return
		}
		slog.Error(logMsg, slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}
	redirectBack(w, r, "/recipe/"+id.Hex())
}

// Rate はレシピに1〜5の評価を付ける。同一ユーザーの再評価は上書きになる。
// 検証エラー時はレシピ詳細ページをエラーメッセージ付きで再表示する。
// POST /rate/{id}
func (h *SocialHandler) Rate(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := recipe.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.RenderNotFound(w, "Recipe not found.")
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		h.recipePage.renderRecipePage(w, r, model.NewInvalidRatingError().Message)
		return
	}

	if err := h.service.Rate(r.Context(), id, user.ID, rating); err != nil {
		var appErr *model.AppError
		switch {
		case model.IsNotFound(err):
			h.renderer.RenderNotFound(w, "Recipe not found.")
		case errors.As(err, &appErr) && appErr.Category == "validation":
			h.recipePage.renderRecipePage(w, r, appErr.Message)
		default:
			slog.Error("failed to rate recipe", slog.String("error", err.Error()))
			h.renderer.RenderServerError(w)
		}
		return
	}

	h.metrics.RecordRating()
	http.Redirect(w, r, "/recipe/"+id.Hex(), http.StatusFound)
}

// Profile は自分のプロフィールを表示する。保存済みレシピも併せて表示する。
// GET /profile
func (h *SocialHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.renderProfile(w, r, user.ID)
}

// ProfileByID は指定ユーザーのプロフィールを表示する。
// 本人の場合のみ保存済みレシピを表示する。
// GET /profile/{userID}
func (h *SocialHandler) ProfileByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.renderer.RenderNotFound(w, "User not found.")
		return
	}
	h.renderProfile(w, r, id)
}

func (h *SocialHandler) renderProfile(w http.ResponseWriter, r *http.Request, profileID primitive.ObjectID) {
	current, _ := middleware.UserFromContext(r.Context())

	profileUser, err := h.userFinder.FindByID(r.Context(), profileID)
	if err != nil {
		slog.Error("failed to find user", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}
	if profileUser == nil {
		h.renderer.RenderNotFound(w, "User not found.")
		return
	}

	authored, err := h.service.AuthoredBy(r.Context(), profileID)
	if err != nil {
		slog.Error("failed to list authored recipes", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}

	data := profilePageData{
		ProfileUser: profileUser,
		Authored:    authored,
		IsSelf:      current != nil && current.ID == profileID,
	}
	if data.IsSelf {
		saved, err := h.service.SavedRecipes(r.Context(), profileID)
		if err != nil {
			slog.Error("failed to list saved recipes", slog.String("error", err.Error()))
			h.renderer.RenderServerError(w)
			return
		}
		data.Saved = saved
	}

	h.renderer.Render(w, http.StatusOK, "profile.html", data)
}
