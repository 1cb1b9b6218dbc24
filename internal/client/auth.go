package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a token and stores both in the session.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out authResponse
	err := g.Do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	g.Session.Set(out.Token, &out.User)
	return g.Session.User(), nil
}

func (g *Gateway) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var out authResponse
	err := g.Do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	g.Session.Set(out.Token, &out.User)
	return g.Session.User(), nil
}

// Logout tells the server, ignoring any failure, then drops local credentials
// and returns to the login view.
func (g *Gateway) Logout(ctx context.Context) {
	if g.Session.Token() != "" {
		_ = g.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	}
	g.Session.Clear()
	g.Navigator.Navigate(LoginPath)
}

// CheckAuth asks the server who the stored token belongs to. On any failure
// the session is cleared and false is returned.
func (g *Gateway) CheckAuth(ctx context.Context) bool {
	tok := g.Session.Token()
	if tok == "" {
		return false
	}

	var out struct {
		User models.User `json:"user"`
	}
	if err := g.Do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		g.Session.Clear()
		return false
	}
	g.Session.Set(tok, &out.User)
	return true
}

// Guard decides whether navigation to path may proceed. It returns the path
// to go to instead, or "" to continue. Admin views need a confirmed session.
func (g *Gateway) Guard(ctx context.Context, path string) string {
	if !isAdminView(path) || g.Session.IsAuthenticated() {
		return ""
	}
	if g.Session.Token() != "" && g.CheckAuth(ctx) {
		return ""
	}
	return LoginPath
}

func isAdminView(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}
