package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/citrus-cyclones/letthemcook/internal/model"
)

type mockUserFinder struct {
	currentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockUserFinder) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, sessionID)
	}
	return nil, nil
}

var _ CurrentUserFinder = (*mockUserFinder)(nil)

func TestSessionMiddleware_NoCookie_RedirectsToLogin(t *testing.T) {
	mw := NewSessionMiddleware(&mockUserFinder{})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a session cookie")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestSessionMiddleware_InvalidSession_RedirectsToLogin(t *testing.T) {
	mw := NewSessionMiddleware(&mockUserFinder{}) // CurrentUserはnil, nilを返す
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for an invalid session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
}

func TestSessionMiddleware_FinderError_RedirectsToLogin(t *testing.T) {
	finder := &mockUserFinder{
		currentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			return nil, fmt.Errorf("store unavailable")
		},
	}
	mw := NewSessionMiddleware(finder)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called when the finder fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "any"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
}

func TestSessionMiddleware_ValidSession_InjectsUser(t *testing.T) {
	userID := primitive.NewObjectID()
	finder := &mockUserFinder{
		currentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID != "good-session" {
				t.Errorf("sessionID = %q, want good-session", sessionID)
			}
			return &model.User{ID: userID, Username: "alice"}, nil
		},
	}
	mw := NewSessionMiddleware(finder)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, err := UserFromContext(r.Context())
		if err != nil {
			t.Fatalf("expected user in context, got %v", err)
		}
		if user.ID != userID {
			t.Errorf("user ID = %s, want %s", user.ID.Hex(), userID.Hex())
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler should be called for a valid session")
	}
}

func TestUserFromContext_WithoutUser_ReturnsError(t *testing.T) {
	_, err := UserFromContext(context.Background())
	if err == nil {
		t.Error("expected error for context without user")
	}
}

func TestContextWithUser_RoundTrip(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	ctx := ContextWithUser(context.Background(), user)

	got, err := UserFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("user ID = %s, want %s", got.ID.Hex(), user.ID.Hex())
	}
}
