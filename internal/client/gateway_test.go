package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/EmpoweredVote/blog-backend/internal/client"
	"github.com/EmpoweredVote/blog-backend/internal/memstore"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/server"
	"github.com/EmpoweredVote/blog-backend/internal/storage"
	"github.com/EmpoweredVote/blog-backend/internal/token"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Navigate(path string) { n.paths = append(n.paths, path) }

func newGateway(t *testing.T, h http.Handler) (*client.Gateway, *recordingNav) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	nav := &recordingNav{}
	g := client.NewGateway(srv.URL, client.NewSession(), nav)
	g.RetryDelay = time.Millisecond
	return g, nav
}

func writeEnvelope(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": status, "message": msg})
}

func signedIn(g *client.Gateway) {
	g.Session.Set("tok-123", &models.User{ID: "u1", Username: "admin", Role: models.RoleAdmin})
}

func TestGatewayAttachesBearer(t *testing.T) {
	var got string
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, g.Do(context.Background(), http.MethodGet, "/api/users", nil, nil))
	assert.Empty(t, got)

	signedIn(g)
	require.NoError(t, g.Do(context.Background(), http.MethodGet, "/api/users", nil, nil))
	assert.Equal(t, "Bearer tok-123", got)
}

func TestGateway401OnProtectedPathTearsDown(t *testing.T) {
	g, nav := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthorized")
	}))
	signedIn(g)

	err := g.Do(context.Background(), http.MethodGet, "/api/users", nil, nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	assert.Empty(t, g.Session.Token())
	assert.Nil(t, g.Session.User())
	assert.Equal(t, []string{client.LoginPath}, nav.paths)
}

func TestGateway401OnExemptPathsKeepsSession(t *testing.T) {
	g, nav := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthorized")
	}))

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/auth/login"},
	}
	for _, c := range cases {
		signedIn(g)
		err := g.Do(context.Background(), c.method, c.path, nil, nil)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr, c.path)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode, c.path)
		assert.Equal(t, "tok-123", g.Session.Token(), c.path)
	}
	assert.Empty(t, nav.paths)
}

func TestGatewayRetriesOnceAndResendsBody(t *testing.T) {
	var calls int32
	var bodies []string
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) == 1 {
			writeEnvelope(w, http.StatusServiceUnavailable, "busy")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"title":"ok"}`))
	}))

	var out models.Post
	err := g.Do(context.Background(), http.MethodPost, "/api/posts", map[string]string{"title": "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 7, out.ID)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"title":"x"}`, bodies[1])
}

func TestGatewayGivesUpAfterOneRetry(t *testing.T) {
	var calls int32
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusBadGateway, "upstream down")
	}))

	err := g.Do(context.Background(), http.MethodGet, "/api/posts", nil, nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGatewayNeverRetries401Or404(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusBadRequest} {
		var calls int32
		g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeEnvelope(w, status, "nope")
		}))
		_ = g.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "status %d", status)
	}
}

func TestGatewayFallbackMessage(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<html>denied</html>"))
	}))

	err := g.Do(context.Background(), http.MethodGet, "/api/users", nil, nil)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "An error occurred", apiErr.Message)
}

func TestGatewayTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := client.NewGateway(url, nil, nil)
	g.RetryDelay = time.Millisecond
	err := g.Do(context.Background(), http.MethodGet, "/api/posts", nil, nil)
	assert.True(t, errors.Is(err, client.ErrTransport), "got %v", err)
}

func TestSessionPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())

	s.Set("tok", &models.User{ID: "u1", Role: models.RoleUser, Password: "hash"})
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, s.User().Password)

	again, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token())
	require.NotNil(t, again.User())
	assert.Equal(t, "u1", again.User().ID)

	again.Clear()
	third, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.Empty(t, third.Token())
	assert.Nil(t, third.User())
}

// liveServer runs the real router on memstore with one admin account.
func liveServer(t *testing.T) (*httptest.Server, *memstore.DB) {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost

	codec, err := token.NewCodec("client-test-secret")
	require.NoError(t, err)
	mem := memstore.New()
	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)
	_, err = mem.Users().UpsertByEmail(context.Background(), models.NewUser{
		Email: "admin@admin.com", Username: "admin", PasswordHash: hash, Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	dir := t.TempDir()
	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Users:              mem.Users(),
		Posts:              mem.Posts(),
		Files:              storage.NewLocalStore(dir),
		Codec:              codec,
		MaxUploadBytes:     1 << 20,
		LoginRatePerMinute: 1000,
		LoginBurst:         1000,
	}))
	t.Cleanup(srv.Close)
	return srv, mem
}

func TestLoginAndGuardAgainstRealServer(t *testing.T) {
	srv, mem := liveServer(t)
	nav := &recordingNav{}
	g := client.NewGateway(srv.URL, nil, nav)
	ctx := context.Background()

	assert.Equal(t, client.LoginPath, g.Guard(ctx, "/admin/posts"))
	assert.Equal(t, "", g.Guard(ctx, "/blog"))

	_, err := g.Login(ctx, "admin@admin.com", "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, nav.paths)

	user, err := g.Login(ctx, "admin@admin.com", "admin123")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.True(t, g.Session.IsAdmin())
	assert.Equal(t, "", g.Guard(ctx, "/admin"))

	list, err := g.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// token only, user unknown: the guard re-checks with the server
	tok := g.Session.Token()
	g.Session.Set(tok, nil)
	assert.False(t, g.Session.IsAuthenticated())
	assert.Equal(t, "", g.Guard(ctx, "/admin/users"))
	assert.True(t, g.Session.IsAuthenticated())

	// account removed server side: next protected call tears the session down
	require.NoError(t, mem.Users().Delete(ctx, user.ID))
	_, err = g.ListUsers(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, g.Session.Token())
	assert.Equal(t, []string{client.LoginPath}, nav.paths)
}

func TestCheckAuthClearsOnFailure(t *testing.T) {
	srv, _ := liveServer(t)
	g := client.NewGateway(srv.URL, nil, nil)

	g.Session.Set("bt-deadbeef-not-a-real-token", nil)
	assert.False(t, g.CheckAuth(context.Background()))
	assert.Empty(t, g.Session.Token())
}

func TestLogoutClearsAndNavigates(t *testing.T) {
	srv, _ := liveServer(t)
	nav := &recordingNav{}
	g := client.NewGateway(srv.URL, nil, nav)
	ctx := context.Background()

	_, err := g.Login(ctx, "admin@admin.com", "admin123")
	require.NoError(t, err)

	g.Logout(ctx)
	assert.False(t, g.Session.IsAuthenticated())
	assert.Empty(t, g.Session.Token())
	assert.Equal(t, []string{client.LoginPath}, nav.paths)
}
