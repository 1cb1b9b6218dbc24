package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EmpoweredVote/blog-backend/internal/access"
	"github.com/EmpoweredVote/blog-backend/internal/auth"
	"github.com/EmpoweredVote/blog-backend/internal/middleware"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/token"
)

// brokenStore fails every call the way a lost database connection would.
type brokenStore struct{}

var errDown = errors.New("database is down")

func (brokenStore) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	return nil, errDown
}

func (brokenStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, errDown
}

func (brokenStore) UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error) {
	return nil, errDown
}

func (brokenStore) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	return nil, errDown
}

func newBrokenHandler(t *testing.T) (*auth.Handler, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec("handlers-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := brokenStore{}
	return &auth.Handler{
		Credentials: store,
		Registrar:   store,
		Tokens:      codec,
		Authenticator: &middleware.Authenticator{
			Classifier: access.Default(),
			Decoder:    codec,
			Fetcher:    store,
		},
	}, codec
}

func TestLoginStoreFailureIs500(t *testing.T) {
	h, _ := newBrokenHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@admin.com","password":"admin123"}`))
	rec := httptest.NewRecorder()

	h.LoginHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "database is down") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestLoginEmptyBody(t *testing.T) {
	h, _ := newBrokenHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.LoginHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Request body is required") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestMeStoreFailureIs500(t *testing.T) {
	h, codec := newBrokenHandler(t)
	tok, err := codec.Issue("0b0a8c1e-9f7d-4b58-8d0e-2a3c4d5e6f70")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	h.MeHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	h, _ := newBrokenHandler(t)
	rec := httptest.NewRecorder()

	h.LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logout successful") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
