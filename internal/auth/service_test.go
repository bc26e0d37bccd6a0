package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
	"github.com/citrus-cyclones/letthemcook/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn          func(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	findByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	createFn            func(ctx context.Context, user *model.User) error
	addSavedRecipeFn    func(ctx context.Context, userID, recipeID primitive.ObjectID) error
	removeSavedRecipeFn func(ctx context.Context, userID, recipeID primitive.ObjectID) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) AddSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	if m.addSavedRecipeFn != nil {
		return m.addSavedRecipeFn(ctx, userID, recipeID)
	}
	return nil
}

func (m *mockUserRepo) RemoveSavedRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	if m.removeSavedRecipeFn != nil {
		return m.removeSavedRecipeFn(ctx, userID, recipeID)
	}
	return nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func newTestService(userRepo *mockUserRepo, sessionRepo *mockSessionRepo) *Service {
	return NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 86400})
}

// --- テスト ---

func TestSignup_CreatesUserWithEmptySavedRecipes(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = primitive.NewObjectID()
			created = user
			return nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	user, err := svc.Signup(context.Background(), "new@example.com", "newbie", "secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID.IsZero() {
		t.Error("user should have an assigned ID")
	}
	if created.SavedRecipes == nil || len(created.SavedRecipes) != 0 {
		t.Errorf("SavedRecipes should be empty, got %v", created.SavedRecipes)
	}
}

func TestSignup_TrimsEmailAndUsername(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	_, err := svc.Signup(context.Background(), "  padded@example.com  ", "  padded  ", "secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Email != "padded@example.com" {
		t.Errorf("Email = %q, want trimmed", created.Email)
	}
	if created.Username != "padded" {
		t.Errorf("Username = %q, want trimmed", created.Username)
	}
}

func TestSignup_EmptyField_ReturnsValidationError(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	tests := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"empty email", "", "user", "pass"},
		{"empty username", "a@example.com", "", "pass"},
		{"empty password", "a@example.com", "user", ""},
		{"whitespace email", "   ", "user", "pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.email, tt.username, tt.password)
			if model.CategoryOf(err) != "validation" {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail_ReturnsEmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: primitive.NewObjectID(), Email: email}, nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	_, err := svc.Signup(context.Background(), "taken@example.com", "user", "pass")
	if model.CategoryOf(err) != "conflict" {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestLogin_ValidCredentials_IssuesSession(t *testing.T) {
	userID := primitive.NewObjectID()
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: userID, Email: email, Password: "secret"}, nil
		},
	}
	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}
	svc := newTestService(userRepo, sessionRepo)

	session, err := svc.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.UserID != userID {
		t.Errorf("session UserID = %s, want %s", session.UserID.Hex(), userID.Hex())
	}
	if saved == nil || saved.ID != session.ID {
		t.Error("session should be persisted")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session should expire in the future")
	}

	// セッションIDは32バイト乱数のhex表現（64文字）
	if matched, _ := regexp.MatchString("^[0-9a-f]{64}$", session.ID); !matched {
		t.Errorf("session ID should be 64 hex chars, got %q", session.ID)
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: primitive.NewObjectID(), Email: email, Password: "right"}, nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), "a@example.com", "wrong")
	if model.CategoryOf(err) != "auth" {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestLogin_UnknownEmail_ReturnsSameErrorAsWrongPassword(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "pass")
	if unknownErr == nil {
		t.Fatal("expected error for unknown email")
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Password: "right"}, nil
		},
	}
	svc = newTestService(userRepo, &mockSessionRepo{})
	_, wrongErr := svc.Login(context.Background(), "a@example.com", "wrong")

	// 未登録メールとパスワード不一致が区別できないこと
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("unknown email and wrong password should yield identical errors: %q vs %q",
			unknownErr.Error(), wrongErr.Error())
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	deleted := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), "session-123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != "session-123" {
		t.Errorf("deleted session = %q, want session-123", deleted)
	}
}

func TestLogout_EmptySessionID_ReturnsError(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session ID")
	}
}

func TestCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	userID := primitive.NewObjectID()
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	svc := newTestService(userRepo, sessionRepo)

	user, err := svc.CurrentUser(context.Background(), "session-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user == nil || user.ID != userID {
		t.Errorf("expected user %s, got %+v", userID.Hex(), user)
	}
}

func TestCurrentUser_MissingSession_ReturnsNilWithoutError(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	user, err := svc.CurrentUser(context.Background(), "expired-or-missing")
	if err != nil {
		t.Fatalf("missing session should not be an error, got %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestCurrentUser_EmptySessionID_ReturnsNil(t *testing.T) {
	findCalled := false
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			findCalled = true
			return nil, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessionRepo)

	user, err := svc.CurrentUser(context.Background(), "")
	if err != nil || user != nil {
		t.Fatalf("empty session ID should return nil, nil; got %v, %v", user, err)
	}
	if findCalled {
		t.Error("repository should not be queried for empty session ID")
	}
}

func TestGenerateSessionID_Unique(t *testing.T) {
	a, err := generateSessionID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := generateSessionID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a == b {
		t.Error("consecutive session IDs should differ")
	}
	if len(a) != 64 {
		t.Errorf("session ID length = %d, want 64", len(a))
	}
}

// TestSignupThenLogin_Roundtrip はインメモリリポジトリを使い、
// サインアップ済みの資格情報でのみログインが成功することを検証する。
func TestSignupThenLogin_Roundtrip(t *testing.T) {
	svc := NewService(
		repository.NewMemoryUserRepo(),
		repository.NewMemorySessionRepo(),
		ServiceConfig{SessionMaxAge: 3600},
	)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice@example.com", "alice", "pw"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	session, err := svc.Login(ctx, "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("login with signed-up credentials should succeed, got %v", err)
	}

	user, err := svc.CurrentUser(ctx, session.ID)
	if err != nil {
		t.Fatalf("current user lookup failed: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Errorf("current user = %+v, want alice", user)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); err == nil {
		t.Error("login with wrong password must fail")
	}

	if err := svc.Logout(ctx, session.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	user, err = svc.CurrentUser(ctx, session.ID)
	if err != nil {
		t.Fatalf("current user lookup after logout failed: %v", err)
	}
	if user != nil {
		t.Error("session should be invalid after logout")
	}
}
