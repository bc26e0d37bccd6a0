package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/middleware"
	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/recipe"
	"github.com/citrus-cyclones/letthemcook/internal/view"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	List(ctx context.Context) ([]model.Recipe, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error)
	Create(ctx context.Context, input recipe.Input, authorID primitive.ObjectID) (*model.Recipe, error)
	Update(ctx context.Context, id primitive.ObjectID, input recipe.Input, requesterID primitive.ObjectID) error
	Delete(ctx context.Context, id, requesterID primitive.ObjectID) error
	Search(ctx context.Context, query, include, exclude string) ([]model.Recipe, error)
}

// RecipeHandler はレシピの閲覧・作成・編集・削除・検索のHTTPハンドラー。
type RecipeHandler struct {
	service  RecipeServiceInterface
	renderer *view.Renderer
	metrics  MetricsRecorder
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface, renderer *view.Renderer, metrics MetricsRecorder) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		renderer: renderer,
		metrics:  orNoopMetrics(metrics),
	}
}

// recipeListData はホームとメニューページのテンプレートデータ。
type recipeListData struct {
	Recipes []model.Recipe
}

// recipePageData はレシピ詳細ページのテンプレートデータ。
type recipePageData struct {
	Recipe  *model.Recipe
	IsOwner bool
	IsSaved bool
	Error   string
}

// recipeFormData はレシピ作成・編集フォームのテンプレートデータ。
type recipeFormData struct {
	Recipe *model.Recipe
	Error  string
}

// searchPageData は検索ページのテンプレートデータ。
type searchPageData struct {
	Query    string
	Include  string
	Exclude  string
	Searched bool
	Results  []model.Recipe
}

// Home は全レシピの一覧を表示する。
// GET /
func (h *RecipeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "home.html")
}

// Menu は全レシピをメニュー形式で表示する。
// GET /menu
func (h *RecipeHandler) Menu(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "menu.html")
}

func (h *RecipeHandler) renderList(w http.ResponseWriter, r *http.Request, page string) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("failed to list recipes", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}
	h.renderer.Render(w, http.StatusOK, page, recipeListData{Recipes: recipes})
}

// CreateForm はカンマ区切り形式の作成フォームを表示する。
// GET /create-recipe
func (h *RecipeHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "create_recipe.html", recipeFormData{})
}

// Create はカンマ区切り形式の作成フォームを処理する。
// 材料はカンマ区切り、手順は改行区切りで解析する。
// 名前が空の場合は何も作成せずホームへ戻す。
// POST /create-recipe
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	input := recipe.Input{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Ingredients:  recipe.SplitCommaList(r.PostFormValue("ingredients")),
		Instructions: recipe.SplitLines(r.PostFormValue("instructions")),
		PrepTime:     recipe.ParsePrepTime(r.PostFormValue("prep_time")),
	}

	created, err := h.service.Create(r.Context(), input, user.ID)
	if err != nil {
		slog.Error("failed to create recipe", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}
	if created != nil {
		h.metrics.RecordRecipeCreated()
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// AddForm は改行区切り形式の作成フォームを表示する。
// GET /add
func (h *RecipeHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "add.html", recipeFormData{})
}

// Add は改行区切り形式の作成フォームを処理する。
// 材料・手順ともに改行区切りで解析し、説明文も受け付ける。
// POST /add
func (h *RecipeHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	input := recipe.Input{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Description:  strings.TrimSpace(r.PostFormValue("description")),
		Ingredients:  recipe.SplitLines(r.PostFormValue("ingredients")),
		Instructions: recipe.SplitLines(r.PostFormValue("instructions")),
		PrepTime:     recipe.ParsePrepTime(r.PostFormValue("prep_time")),
	}

	created, err := h.service.Create(r.Context(), input, user.ID)
	if err != nil {
		slog.Error("failed to add recipe", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}
	if created != nil {
		h.metrics.RecordRecipeCreated()
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// View はレシピ詳細ページを表示する。
// GET /recipe/{id}
func (h *RecipeHandler) View(w http.ResponseWriter, r *http.Request) {
	h.renderRecipePage(w, r, "")
}

// renderRecipePage はレシピ詳細ページを描画する。
// errMsgが空でない場合は評価フォームのエラーとして表示する。
func (h *RecipeHandler) renderRecipePage(w http.ResponseWriter, r *http.Request, errMsg string) {
	found, user := h.loadRecipe(w, r)
	if found == nil {
		return
	}

	data := recipePageData{Recipe: found, Error: errMsg}
	if user != nil {
		data.IsOwner = found.AuthorID == user.ID
		data.IsSaved = user.HasSaved(found.ID)
	}
	h.renderer.Render(w, http.StatusOK, "recipe.html", data)
}

// loadRecipe はURLのIDからレシピを取得する。
// 不正なIDと存在しないIDはいずれも404ページを描画しnilを返す。
func (h *RecipeHandler) loadRecipe(w http.ResponseWriter, r *http.Request) (*model.Recipe, *model.User) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := recipe.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.RenderNotFound(w, "Recipe not found.")
		return nil, user
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if model.IsNotFound(err) {
			h.renderer.RenderNotFound(w, "Recipe not found.")
			return nil, user
		}
		slog.Error("failed to get recipe", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return nil, user
	}
	return found, user
}

// EditForm は編集フォームを現在の値を埋めた状態で表示する。
// 所有者以外はホームへリダイレクトする。
// GET /edit/{id}
func (h *RecipeHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	found, user := h.loadRecipe(w, r)
	if found == nil {
		return
	}
	if user == nil || found.AuthorID != user.ID {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.renderer.Render(w, http.StatusOK, "edit.html", recipeFormData{Recipe: found})
}

// Edit は編集フォームの送信を処理する。全項目を上書きする。
// POST /edit/{id}
func (h *RecipeHandler) Edit(w http.ResponseWriter, r *http.Request) {
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

	input := recipe.Input{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Description:  strings.TrimSpace(r.PostFormValue("description")),
		Ingredients:  recipe.SplitLines(r.PostFormValue("ingredients")),
		Instructions: recipe.SplitLines(r.PostFormValue("instructions")),
		PrepTime:     recipe.ParsePrepTime(r.PostFormValue("prep_time")),
	}

	if err := h.service.Update(r.Context(), id, input, user.ID); err != nil {
		h.handleMutationError(w, r, err, "failed to update recipe")
		return
	}
	http.Redirect(w, r, "/recipe/"+id.Hex(), http.StatusFound)
}

// DeleteConfirm は削除確認ページを表示する。
// 所有者以外はホームへリダイレクトする。
// GET /delete/{id}
func (h *RecipeHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	found, user := h.loadRecipe(w, r)
	if found == nil {
		return
	}
	if user == nil || found.AuthorID != user.ID {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.renderer.Render(w, http.StatusOK, "delete.html", recipeFormData{Recipe: found})
}

// Delete は削除確認フォームの送信を処理する。
// POST /delete/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), id, user.ID); err != nil {
		h.handleMutationError(w, r, err, "failed to delete recipe")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleMutationError は更新・削除系の失敗を分類して応答する。
// 権限エラーはホームへリダイレクト、不存在は404ページ、それ以外は500。
func (h *RecipeHandler) handleMutationError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case model.IsForbidden(err):
		http.Redirect(w, r, "/", http.StatusFound)
	case model.IsNotFound(err):
		h.renderer.RenderNotFound(w, "Recipe not found.")
	default:
		slog.Error(logMsg, slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
	}
}

// SearchForm は検索フォームを表示する。
// GET /search
func (h *RecipeHandler) SearchForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "search.html", searchPageData{})
}

// Search は検索フォームの送信を処理し、条件と結果を同一ページに表示する。
// POST /search
func (h *RecipeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.PostFormValue("query")
	include := r.PostFormValue("include_ingredients")
	exclude := r.PostFormValue("exclude_ingredients")

	results, err := h.service.Search(r.Context(), query, include, exclude)
	if err != nil {
		slog.Error("failed to search recipes", slog.String("error", err.Error()))
		h.renderer.RenderServerError(w)
		return
	}

	h.metrics.RecordSearch()
	h.renderer.Render(w, http.StatusOK, "search.html", searchPageData{
		Query:    query,
		Include:  include,
		Exclude:  exclude,
		Searched: true,
		Results:  results,
	})
}
