package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

// --- モック定義 ---

type mockSocialService struct {
	saveFn         func(ctx context.Context, userID, recipeID primitive.ObjectID) error
	unsaveFn       func(ctx context.Context, userID, recipeID primitive.ObjectID) error
	savedRecipesFn func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error)
	authoredByFn   func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error)
	rateFn         func(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error
}

var _ SocialServiceInterface = (*mockSocialService)(nil)

func (m *mockSocialService) Save(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	return m.saveFn(ctx, userID, recipeID)
}

func (m *mockSocialService) Unsave(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	return m.unsaveFn(ctx, userID, recipeID)
}

func (m *mockSocialService) SavedRecipes(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
	return m.savedRecipesFn(ctx, userID)
}

func (m *mockSocialService) AuthoredBy(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
	return m.authoredByFn(ctx, userID)
}

func (m *mockSocialService) Rate(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error {
	return m.rateFn(ctx, recipeID, userID, rating)
}

type mockProfileUserFinder struct {
	findByIDFn func(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

var _ UserFinder = (*mockProfileUserFinder)(nil)

func (m *mockProfileUserFinder) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

// newSocialHandlerForTest はソーシャルハンドラーとレシピ詳細の再描画に使う
// レシピサービスモックを組み立てる。
func newSocialHandlerForTest(t *testing.T, service *mockSocialService, finder *mockProfileUserFinder, recipeService *mockRecipeService, metrics MetricsRecorder) *SocialHandler {
	t.Helper()
	renderer := newTestRenderer(t)
	if recipeService == nil {
		recipeService = &mockRecipeService{}
	}
	recipePage := NewRecipeHandler(recipeService, renderer, nil)
	return NewSocialHandler(service, finder, recipePage, renderer, metrics)
}

// --- テスト ---

func TestSave_Success_RedirectsToRecipe(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	saved := false
	service := &mockSocialService{
		saveFn: func(ctx context.Context, userID, gotRecipeID primitive.ObjectID) error {
			saved = true
			if userID != user.ID || gotRecipeID != recipeID {
				t.Errorf("save called with %s/%s", userID.Hex(), gotRecipeID.Hex())
			}
			return nil
		},
	}
	h := newSocialHandlerForTest(t, service, nil, nil, nil)

	req := withUser(withURLParam(postForm("/save/"+recipeID.Hex(), nil), "id", recipeID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if !saved {
		t.Error("service save should be called")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/recipe/"+recipeID.Hex() {
		t.Errorf("Location = %q, want the recipe page", got)
	}
}

func TestSave_WithReferer_RedirectsBack(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	service := &mockSocialService{
		saveFn: func(ctx context.Context, userID, recipeID primitive.ObjectID) error {
			return nil
		},
	}
	h := newSocialHandlerForTest(t, service, nil, nil, nil)

	req := withUser(withURLParam(postForm("/save/"+recipeID.Hex(), nil), "id", recipeID.Hex()), user)
	req.Header.Set("Referer", "/menu")
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if got := rec.Header().Get("Location"); got != "/menu" {
		t.Errorf("Location = %q, want the referring page", got)
	}
}

func TestSave_MissingRecipe_Renders404(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	service := &mockSocialService{
		saveFn: func(ctx context.Context, userID, recipeID primitive.ObjectID) error {
			return model.NewRecipeNotFoundError()
		},
	}
	h := newSocialHandlerForTest(t, service, nil, nil, nil)

	req := withUser(withURLParam(postForm("/save/"+recipeID.Hex(), nil), "id", recipeID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUnsave_Success_Redirects(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	unsaved := false
	service := &mockSocialService{
		unsaveFn: func(ctx context.Context, userID, recipeID primitive.ObjectID) error {
			unsaved = true
			return nil
		},
	}
	h := newSocialHandlerForTest(t, service, nil, nil, nil)

	req := withUser(withURLParam(postForm("/unsave/"+recipeID.Hex(), nil), "id", recipeID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Unsave(rec, req)

	if !unsaved {
		t.Error("service unsave should be called")
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
}

func TestRate_Success_RedirectsToRecipe(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	service := &mockSocialService{
		rateFn: func(ctx context.Context, gotRecipeID, userID primitive.ObjectID, rating int) error {
			if rating != 4 {
				t.Errorf("rating = %d, want 4", rating)
			}
			return nil
		},
	}
	metrics := &countingMetrics{}
	h := newSocialHandlerForTest(t, service, nil, nil, metrics)

	req := withUser(withURLParam(postForm("/rate/"+recipeID.Hex(), url.Values{"rating": {"4"}}), "id", recipeID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Rate(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/recipe/"+recipeID.Hex() {
		t.Errorf("Location = %q, want the recipe page", got)
	}
	if metrics.ratings != 1 {
		t.Errorf("ratings recorded = %d, want 1", metrics.ratings)
	}
}

func TestRate_NonNumericRating_RerendersRecipePage(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	found := &model.Recipe{
		ID:           primitive.NewObjectID(),
		Name:         "Miso Soup",
		Ingredients:  []string{"miso"},
		Instructions: []string{"simmer"},
	}
	recipeService := &mockRecipeService{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
			return found, nil
		},
	}
	service := &mockSocialService{
		rateFn: func(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error {
			t.Error("service should not be called for a non-numeric rating")
			return nil
		},
	}
	h := newSocialHandlerForTest(t, service, nil, recipeService, nil)

	req := withUser(withURLParam(postForm("/rate/"+found.ID.Hex(), url.Values{"rating": {"lots"}}), "id", found.ID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Rate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Rating must be a whole number between 1 and 5.") {
		t.Error("validation message should be shown on the recipe page")
	}
	if !strings.Contains(body, "Miso Soup") {
		t.Error("recipe page should be re-rendered")
	}
}

func TestRate_OutOfRange_RerendersRecipePage(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	found := &model.Recipe{
		ID:           primitive.NewObjectID(),
		Name:         "Miso Soup",
		Ingredients:  []string{"miso"},
		Instructions: []string{"simmer"},
	}
	recipeService := &mockRecipeService{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
			return found, nil
		},
	}
	service := &mockSocialService{
		rateFn: func(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error {
			return model.NewInvalidRatingError()
		},
	}
	h := newSocialHandlerForTest(t, service, nil, recipeService, nil)

	req := withUser(withURLParam(postForm("/rate/"+found.ID.Hex(), url.Values{"rating": {"9"}}), "id", found.ID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Rate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rating must be a whole number between 1 and 5.") {
		t.Error("validation message should be shown on the recipe page")
	}
}

func TestRate_MissingRecipe_Renders404(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	recipeID := primitive.NewObjectID()
	service := &mockSocialService{
		rateFn: func(ctx context.Context, recipeID, userID primitive.ObjectID, rating int) error {
			return model.NewRecipeNotFoundError()
		},
	}
	h := newSocialHandlerForTest(t, service, nil, nil, nil)

	req := withUser(withURLParam(postForm("/rate/"+recipeID.Hex(), url.Values{"rating": {"3"}}), "id", recipeID.Hex()), user)
	rec := httptest.NewRecorder()
	h.Rate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestProfile_Self_ShowsAuthoredAndSaved(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID(), Username: "alice"}
	service := &mockSocialService{
		authoredByFn: func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
			return []model.Recipe{{ID: primitive.NewObjectID(), Name: "My Curry"}}, nil
		},
		savedRecipesFn: func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
			return []model.Recipe{{ID: primitive.NewObjectID(), Name: "Saved Soup"}}, nil
		},
	}
	finder := &mockProfileUserFinder{
		findByIDFn: func(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
			return user, nil
		},
	}
	h := newSocialHandlerForTest(t, service, finder, nil, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/profile", nil), user)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "alice") {
		t.Error("profile should show the username")
	}
	if !strings.Contains(body, "My Curry") {
		t.Error("profile should list authored recipes")
	}
	if !strings.Contains(body, "Saved Soup") {
		t.Error("own profile should list saved recipes")
	}
}

func TestProfileByID_OtherUser_HidesSavedRecipes(t *testing.T) {
	viewer := &model.User{ID: primitive.NewObjectID(), Username: "alice"}
	other := &model.User{ID: primitive.NewObjectID(), Username: "bob"}
	service := &mockSocialService{
		authoredByFn: func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
			return []model.Recipe{{ID: primitive.NewObjectID(), Name: "Bob Stew"}}, nil
		},
		savedRecipesFn: func(ctx context.Context, userID primitive.ObjectID) ([]model.Recipe, error) {
			t.Error("saved recipes should not be fetched for another user's profile")
			return nil, nil
		},
	}
	finder := &mockProfileUserFinder{
		findByIDFn: func(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
			return other, nil
		},
	}
	h := newSocialHandlerForTest(t, service, finder, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile/"+other.ID.Hex(), nil)
	req = withUser(withURLParam(req, "userID", other.ID.Hex()), viewer)
	rec := httptest.NewRecorder()
	h.ProfileByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "bob") {
		t.Error("profile should show the profile owner's username")
	}
	if !strings.Contains(body, "Bob Stew") {
		t.Error("profile should list authored recipes")
	}
}

func TestProfileByID_MalformedID_Renders404(t *testing.T) {
	h := newSocialHandlerForTest(t, &mockSocialService{}, &mockProfileUserFinder{}, nil, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/profile/nope", nil), "userID", "nope")
	rec := httptest.NewRecorder()
	h.ProfileByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User not found.") {
		t.Error("404 page should explain the user is missing")
	}
}

func TestProfileByID_UnknownUser_Renders404(t *testing.T) {
	viewer := &model.User{ID: primitive.NewObjectID()}
	id := primitive.NewObjectID()
	finder := &mockProfileUserFinder{
		findByIDFn: func(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
			return nil, nil
		},
	}
	h := newSocialHandlerForTest(t, &mockSocialService{}, finder, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile/"+id.Hex(), nil)
	req = withUser(withURLParam(req, "userID", id.Hex()), viewer)
	rec := httptest.NewRecorder()
	h.ProfileByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
